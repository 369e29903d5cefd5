package model

import "context"

// Storage is the object store that receives archived audit batches.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// Download returns ErrNotFound when the object does not exist.
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
