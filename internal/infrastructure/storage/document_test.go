package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeObjects struct {
	docs map[string]string
}

func (f fakeObjects) GetText(ctx context.Context, name string) (string, error) {
	if d, ok := f.docs[name]; ok {
		return d, nil
	}
	return "", errors.New("The specified key does not exist.")
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contexto.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadContextDocumentPrefersObject(t *testing.T) {
	path := writeDoc(t, "from file")
	objects := fakeObjects{docs: map[string]string{"prompts/contexto.txt": "from bucket"}}

	doc, err := LoadContextDocument(context.Background(), DocumentSource{Object: "prompts/contexto.txt", Path: path}, objects, nil)
	if err != nil || doc != "from bucket" {
		t.Fatalf("expected bucket document, got %q %v", doc, err)
	}
}

func TestLoadContextDocumentFallsBackToFile(t *testing.T) {
	path := writeDoc(t, "from file")

	doc, err := LoadContextDocument(context.Background(), DocumentSource{Object: "missing.txt", Path: path}, fakeObjects{}, nil)
	if err != nil || doc != "from file" {
		t.Fatalf("expected file document, got %q %v", doc, err)
	}
}

func TestLoadContextDocumentMissing(t *testing.T) {
	src := DocumentSource{Path: filepath.Join(t.TempDir(), "nope.txt")}
	if _, err := LoadContextDocument(context.Background(), src, nil, nil); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound got %v", err)
	}

	blank := writeDoc(t, "   \n")
	if _, err := LoadContextDocument(context.Background(), DocumentSource{Path: blank}, nil, nil); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("blank document should count as missing, got %v", err)
	}
}
