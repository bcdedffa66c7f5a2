package nanogen

import (
	"context"
)

// Storage is a minimal interface for persisting result images, designed so
// implementations can wrap existing storage clients (local disk, S3, etc.)
// with a thin adapter.
type Storage interface {
	// SaveFile saves image data under path and returns a reference to the
	// saved object (a filesystem path or a public URL, depending on the
	// backend). The contentType is the image's MIME type.
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

// StorageResult describes where a saved image landed.
type StorageResult struct {
	// URL is the reference returned by the backend.
	URL string

	// Path is the storage path/key the image was saved under.
	Path string

	// Size is the number of bytes saved.
	Size int
}

// SaveAsset decodes an ImageAsset and writes it through storage under path.
func SaveAsset(ctx context.Context, storage Storage, asset ImageAsset, path string) (StorageResult, error) {
	if storage == nil {
		return StorageResult{}, ErrStorageNotConfigured
	}

	data, err := asset.Bytes()
	if err != nil {
		return StorageResult{}, err
	}

	url, err := storage.SaveFile(ctx, data, path, asset.MIMEType)
	if err != nil {
		return StorageResult{}, err
	}

	return StorageResult{
		URL:  url,
		Path: path,
		Size: len(data),
	}, nil
}
