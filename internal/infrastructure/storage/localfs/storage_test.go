package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestStorageRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "doc-1_form16.pdf", strings.NewReader("pdf-bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := store.Open(ctx, "doc-1_form16.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("read back %q, want %q", data, "pdf-bytes")
	}
}

func TestStorageRemoveIsIdempotent(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "doc-2", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Remove(ctx, "doc-2"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, "doc-2"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if _, err := store.Open(ctx, "doc-2"); err == nil {
		t.Fatal("expected Open to fail after Remove")
	}
}
