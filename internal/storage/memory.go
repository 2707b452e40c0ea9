package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-process Store used by tests and local runs
// without an object storage backend.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func memoryKey(bucket, object string) string {
	return bucket + "/" + object
}

// PutObject stores an object in memory.
func (s *MemoryStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[memoryKey(bucket, object)] = memoryObject{
		data:        data,
		contentType: opts.ContentType,
	}
	return nil
}

// GetObject reads an object from memory.
func (s *MemoryStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.objects[memoryKey(bucket, object)]
	if !ok {
		return nil, ObjectInfo{}, fmt.Errorf("object %s/%s not found", bucket, object)
	}
	info := ObjectInfo{
		ObjectName:  object,
		Size:        int64(len(stored.data)),
		ContentType: stored.contentType,
	}
	return io.NopCloser(bytes.NewReader(stored.data)), info, nil
}

// StatObject checks object existence and size.
func (s *MemoryStore) StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.objects[memoryKey(bucket, object)]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("object %s/%s not found", bucket, object)
	}
	return ObjectInfo{
		ObjectName:  object,
		Size:        int64(len(stored.data)),
		ContentType: stored.contentType,
	}, nil
}

// RemoveObject deletes an object; removing a missing object is not an
// error, matching object-store semantics.
func (s *MemoryStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, memoryKey(bucket, object))
	return nil
}

// PresignedGetObjectWithResponse returns a synthetic URL.
func (s *MemoryStore) PresignedGetObjectWithResponse(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[memoryKey(bucket, object)]; !ok {
		return "", fmt.Errorf("object %s/%s not found", bucket, object)
	}
	return fmt.Sprintf("memory://%s/%s", bucket, object), nil
}

// Len reports how many objects are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether an object exists.
func (s *MemoryStore) Has(bucket, object string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[memoryKey(bucket, object)]
	return ok
}
