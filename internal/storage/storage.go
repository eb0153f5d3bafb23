// Package storage provides the blob store abstraction for media assets.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the referenced blob does not exist.
var ErrNotFound = errors.New("blob not found")

// BlobStore stores uploaded media (video files, thumbnails, avatars) and
// serves them by public URL. Entity records only ever reference blobs by the
// URL returned from Upload.
type BlobStore interface {
	// Upload stores the content under key and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)

	// Delete removes the blob a previous Upload returned url for.
	Delete(ctx context.Context, url string) error
}
