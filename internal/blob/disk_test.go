package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_Upload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads/")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}

	url, err := store.Upload(context.Background(), "Venue Photo.JPG", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("expected URL under base prefix, got %q", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("expected lowercased original extension, got %q", url)
	}
	if strings.Contains(url, "Venue Photo") {
		t.Fatalf("client filename must not leak into the URL: %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	if err != nil {
		t.Fatalf("read stored blob: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestDiskStore_UploadCancelledContext(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Upload(ctx, "a.png", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
