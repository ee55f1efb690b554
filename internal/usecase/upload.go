package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"jobboard/internal/infrastructure/storage"
)

// File is an uploaded file as handed over by the transport layer.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// SaveUpload stores f under prefix and turns policy failures into a rule
// error on field.
func SaveUpload(ctx context.Context, st storage.Storage, prefix, field string, f File) (storage.StoredFile, error) {
	if f.Content == nil {
		return storage.StoredFile{}, Rule(field, "file is required")
	}
	stored, err := st.Put(ctx, prefix, f.Name, f.Content, f.Size)
	switch {
	case err == nil:
		return stored, nil
	case errors.Is(err, storage.ErrEmptyFile):
		return storage.StoredFile{}, Rule(field, "file is empty")
	case errors.Is(err, storage.ErrTooLarge):
		return storage.StoredFile{}, Rule(field, "file is too large")
	case errors.Is(err, storage.ErrUnsupportedType):
		return storage.StoredFile{}, Rule(field, "file type is not allowed")
	default:
		return storage.StoredFile{}, fmt.Errorf("store %s: %w", prefix, err)
	}
}

// Download is a stored file on its way to an authorized client. The caller
// closes Content.
type Download struct {
	Name        string
	ContentType string
	Content     io.ReadCloser
}

// OpenDownload opens key and names it name, falling back to the key's base
// name.
func OpenDownload(ctx context.Context, st storage.Storage, key, name string) (Download, error) {
	obj, err := st.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Download{}, NotFound("file not found")
		}
		return Download{}, fmt.Errorf("open %s: %w", key, err)
	}
	if name == "" || name == path.Ext(key) {
		name = path.Base(key)
	}
	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Download{Name: name, ContentType: ct, Content: obj.Content}, nil
}
