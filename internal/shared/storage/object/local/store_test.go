package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenReadsFileUnderBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "PROFILE.md"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rc, err := New(dir).Open(context.Background(), "PROFILE.md")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../secret", "/etc/passwd"} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestOpenHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(t.TempDir()).Open(ctx, "PROFILE.md"); err == nil {
		t.Fatalf("expected context error")
	}
}
