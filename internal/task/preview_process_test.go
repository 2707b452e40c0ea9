package task

import (
	"FileVault/config"
	"FileVault/internal/storage"
	"bytes"
	"context"
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/disintegration/imaging"
)

func TestBuildTextPreviewTrimsToValidUTF8(t *testing.T) {
	// é is two bytes; the read limit lands in the middle of it.
	excerpt := strings.Repeat("a", textExcerptBytes-1) + "é"
	data, err := buildTextPreview(strings.NewReader(excerpt + " trailing"))
	if err != nil {
		t.Fatal(err)
	}
	if data.Kind != "text" {
		t.Fatalf("kind = %q", data.Kind)
	}
	if len(data.Excerpt) == 0 || len(data.Excerpt) > textExcerptBytes {
		t.Fatalf("excerpt length = %d", len(data.Excerpt))
	}
	if !utf8.ValidString(data.Excerpt) {
		t.Fatal("excerpt is not valid UTF-8")
	}
}

func TestBuildImagePreviewFitsThumbnail(t *testing.T) {
	config.InitConfig()
	storage.Default = storage.NewMemoryStore()

	src := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for x := 0; x < 800; x += 40 {
		for y := 0; y < 600; y++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG); err != nil {
		t.Fatal(err)
	}

	data, thumbnailObject, err := buildImagePreview(context.Background(), 7, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if data.Kind != "image" || data.Width != 800 || data.Height != 600 {
		t.Fatalf("preview data = %+v", data)
	}
	if thumbnailObject == "" {
		t.Fatal("expected a thumbnail object")
	}

	store := storage.Default.(*storage.MemoryStore)
	if !store.Has(config.AppConfig.BucketName, thumbnailObject) {
		t.Fatal("thumbnail blob was not stored")
	}

	reader, _, err := storage.Default.GetObject(context.Background(), config.AppConfig.BucketName, thumbnailObject)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	thumb, err := imaging.Decode(reader)
	if err != nil {
		t.Fatal(err)
	}
	bounds := thumb.Bounds()
	edge := config.AppConfig.ThumbnailMaxEdge
	if bounds.Dx() > edge || bounds.Dy() > edge {
		t.Fatalf("thumbnail %dx%d exceeds max edge %d", bounds.Dx(), bounds.Dy(), edge)
	}
}
