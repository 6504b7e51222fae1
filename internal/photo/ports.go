package photo

import (
	"context"
	"io"
)

// Store is the object storage behind photo uploads. Open and Delete return
// an apperror NotFound value for unknown keys.
type Store interface {
	Put(ctx context.Context, key, mediaType string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
