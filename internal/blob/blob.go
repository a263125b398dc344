// Package blob stores uploaded photos and scanned documents and hands
// back the URL that gets patched into the owning record.
package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob: not found")

// Store is the object storage collaborator behind the upload endpoints.
type Store interface {
	// Put writes the object under key and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
