package core

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var ErrBlobNotFound = errors.New("file not found")

// BlobStore is any service that can keep uploaded files, addressed by a slash separated path.
type BlobStore interface {
	Upload(ctx context.Context, path string, content io.Reader, contentType string) error
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	PublicURL(path string) string
	Remove(ctx context.Context, paths ...string) error
}
