package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	ObjectName  string
	Size        int64
	ContentType string
}

// Store abstracts object storage operations. Blob writes are never
// atomic with metadata writes; callers treat deletion as best-effort
// and absence on read as a surfaced, non-fatal inconsistency.
type Store interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error
	GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, ObjectInfo, error)
	StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, object string) error
	PresignedGetObjectWithResponse(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error)
}

// Default is the main object store instance.
var Default Store
