package model

import (
	"context"
	"io"
)

// Storage is the blob store consumed by the image pipeline: key-addressed
// object storage with public URL issuance.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
	KeyFromURL(rawURL string) (string, error)
}
