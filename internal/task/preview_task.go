package task

import (
	"FileVault/internal/mq"
	"context"
	"encoding/json"
)

// PreviewMessage is the payload sent to the preview worker.
type PreviewMessage struct {
	FileID  uint64 `json:"file_id"`
	Attempt int    `json:"attempt"`
}

// EnqueuePreviewTask queues preview generation for a file. Callers on
// the upload path treat a failure here as non-fatal: the upload stands
// and the preview can be requested again later.
func EnqueuePreviewTask(fileID uint64) error {
	msg := PreviewMessage{FileID: fileID, Attempt: 0}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishTask(context.Background(), body)
}
