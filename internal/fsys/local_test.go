package fsys

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/docshell/schema"
)

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bpmn")
	fs := NewLocal()
	ctx := context.Background()
	if err := fs.WriteFile(ctx, schema.WriteRequest{Name: "a.bpmn", Path: path, Contents: []byte("<xml/>")}, schema.WriteOptions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "<xml/>" {
		t.Fatalf("unexpected contents %q", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, got %d entries", len(entries))
	}
}

func TestPlainSaveRequiresExistingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "a.bpmn")
	fs := NewLocal()
	ctx := context.Background()
	if err := fs.WriteFile(ctx, schema.WriteRequest{Path: path}, schema.WriteOptions{}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if err := fs.WriteFile(ctx, schema.WriteRequest{Path: path}, schema.WriteOptions{SaveAs: true}); err != nil {
		t.Fatalf("expected save-as to create directories: %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := NewLocal().ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error")
	}
}
