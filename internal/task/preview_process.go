package task

import (
	"FileVault/config"
	"FileVault/internal/service"
	"FileVault/internal/storage"
	"FileVault/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
)

const textExcerptBytes = 4096

type previewData struct {
	Kind    string `json:"kind"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// ProcessPreviewTask builds preview artifacts for one file: a thumbnail
// for images, a text excerpt for text content, and a bare record for
// everything else. A file deleted before the worker gets to it is not
// an error.
func ProcessPreviewTask(ctx context.Context, fileID uint64) error {
	file, err := service.GetFile(fileID)
	if err != nil {
		if service.IsKind(err, service.KindNotFound) {
			return nil
		}
		return err
	}
	if storage.Default == nil {
		return fmt.Errorf("storage not initialized")
	}

	reader, _, err := storage.Default.GetObject(ctx, file.BucketName, file.ObjectName)
	if err != nil {
		return fmt.Errorf("read blob %s/%s: %w", file.BucketName, file.ObjectName, err)
	}
	defer reader.Close()

	var data previewData
	thumbnailObject := ""
	switch {
	case strings.HasPrefix(file.ContentType, "image/"):
		data, thumbnailObject, err = buildImagePreview(ctx, file.OwnerID, reader)
		if err != nil {
			// An undecodable image is permanent; record that instead of
			// retrying forever.
			data = previewData{Kind: "unsupported"}
		}
	case strings.HasPrefix(file.ContentType, "text/") || file.ContentType == "application/json":
		data, err = buildTextPreview(reader)
		if err != nil {
			return err
		}
	default:
		data = previewData{Kind: "none"}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = service.UpsertPreview(file.ID, config.AppConfig.BucketName, thumbnailObject, string(payload))
	return err
}

func buildImagePreview(ctx context.Context, ownerID uint64, reader io.Reader) (previewData, string, error) {
	img, err := imaging.Decode(reader)
	if err != nil {
		return previewData{}, "", err
	}
	bounds := img.Bounds()

	edge := config.AppConfig.ThumbnailMaxEdge
	if edge <= 0 {
		edge = 256
	}
	thumb := imaging.Fit(img, edge, edge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return previewData{}, "", err
	}

	thumbnailObject := fmt.Sprintf("thumbnails/%d/%s.png", ownerID, utils.GetToken())
	err = storage.Default.PutObject(
		ctx,
		config.AppConfig.BucketName,
		thumbnailObject,
		&buf,
		int64(buf.Len()),
		storage.PutOptions{ContentType: "image/png"},
	)
	if err != nil {
		return previewData{}, "", err
	}

	data := previewData{
		Kind:   "image",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	return data, thumbnailObject, nil
}

func buildTextPreview(reader io.Reader) (previewData, error) {
	raw, err := io.ReadAll(io.LimitReader(reader, textExcerptBytes))
	if err != nil {
		return previewData{}, err
	}
	// Trim a byte sequence cut mid-rune so the excerpt stays valid UTF-8.
	for len(raw) > 0 && !utf8.Valid(raw) {
		raw = raw[:len(raw)-1]
	}
	return previewData{Kind: "text", Excerpt: string(raw)}, nil
}
