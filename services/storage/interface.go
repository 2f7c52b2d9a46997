package storage

import (
	"context"
	"io"
	"time"
)

// StoredFile identifies an uploaded object.
type StoredFile struct {
	PublicID     string
	ResourceType string
	Bytes        int
}

// StorageService defines the interface for document storage operations.
type StorageService interface {
	// Upload stores the content under folder with restricted (authenticated) delivery.
	Upload(ctx context.Context, content io.Reader, folder string) (*StoredFile, error)
	Delete(ctx context.Context, file StoredFile) error
	// SignedURL returns a URL that stops working after ttl.
	SignedURL(file StoredFile, ttl time.Duration) (string, error)
}
