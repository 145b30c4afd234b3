package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yukikurage/chrono-planner-api/internal/config"
)

var (
	ErrInvalidObjectName = errors.New("invalid object name")
	ErrRemoteRejected    = errors.New("object store rejected the request")
)

// Object identifies a stored file.
type Object struct {
	// URL is the public address clients use to fetch the file
	URL string
	// ID is the store specific identifier needed to delete it
	ID string
}

// ObjectStore accepts file bytes and returns a public URL for them.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error)
	Delete(ctx context.Context, id string) error
}

// New builds the store selected by cfg.Driver.
func New(cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "local":
		store, err := NewLocalStore(cfg.LocalDir, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "cloudinary":
		store, err := NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
