package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

func TestFetchAll_ReadsAllLines(t *testing.T) {
	path := writeSourceFile(t, `{"id":"doc-1","title":"Люстра"}
{"id":"doc-2","title":"Бра"}
`)
	src := NewFileSource(path)

	docs, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0]["id"] != "doc-1" || docs[1]["title"] != "Бра" {
		t.Errorf("unexpected documents: %v", docs)
	}
}

func TestFetchAll_SkipsBlankLines(t *testing.T) {
	path := writeSourceFile(t, `{"id":"doc-1"}

{"id":"doc-2"}

`)
	src := NewFileSource(path)

	docs, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}
}

func TestFetchAll_MalformedLineFailsWhole(t *testing.T) {
	path := writeSourceFile(t, `{"id":"doc-1"}
{broken
{"id":"doc-2"}
`)
	src := NewFileSource(path)

	_, err := src.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestFetchAll_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.jsonl"))

	_, err := src.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFetchAll_CanceledContext(t *testing.T) {
	path := writeSourceFile(t, `{"id":"doc-1"}`)
	src := NewFileSource(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchAll(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
