package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// TextReader fetches text objects from object storage
type TextReader interface {
	GetText(ctx context.Context, objectName string) (string, error)
}

// ErrDocumentNotFound is returned when no source holds the context document
var ErrDocumentNotFound = errors.New("context document not found")

// DocumentSource says where the context document may live. Object takes
// precedence over Path when both are set and the object is readable.
type DocumentSource struct {
	Object string
	Path   string
}

// LoadContextDocument reads the SPIN context document once at startup.
// Callers degrade to the generic prompt on ErrDocumentNotFound.
func LoadContextDocument(ctx context.Context, src DocumentSource, objects TextReader, logger *zap.Logger) (string, error) {
	if src.Object != "" && objects != nil {
		doc, err := objects.GetText(ctx, src.Object)
		if err == nil && strings.TrimSpace(doc) != "" {
			if logger != nil {
				logger.Info("📄 Context document loaded from object storage", zap.String("object", src.Object), zap.Int("bytes", len(doc)))
			}
			return doc, nil
		}
		if logger != nil {
			logger.Warn("⚠️ Context document object unavailable, trying file", zap.String("object", src.Object), zap.Error(err))
		}
	}

	if src.Path != "" {
		b, err := os.ReadFile(src.Path)
		switch {
		case err == nil && strings.TrimSpace(string(b)) != "":
			if logger != nil {
				logger.Info("📄 Context document loaded from file", zap.String("path", src.Path), zap.Int("bytes", len(b)))
			}
			return string(b), nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("failed to read context document %s: %w", src.Path, err)
		}
	}

	if logger != nil {
		logger.Warn("⚠️ Context document missing, generic prompt will be used",
			zap.String("object", src.Object),
			zap.String("path", src.Path))
	}
	return "", ErrDocumentNotFound
}
