// Package storage keeps recipe images on the local filesystem, in S3 or in
// MinIO. Recipes persist the object key; URL turns it into a public link.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/config"
)

// ImageStore persists binary image assets under opaque keys.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// KeyPrefix is prepended to every stored recipe image name.
const KeyPrefix = "recipes/images/"

// New builds the ImageStore selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicURL), nil
	case "s3":
		client, err := config.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.Bucket, publicBase(cfg)), nil
	case "minio":
		client, err := config.NewMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewMinioStore(client, cfg.Bucket, publicBase(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// publicBase is the URL prefix objects are served from. An absolute
// storage.public_url wins; otherwise it derives from the bucket location.
func publicBase(cfg config.StorageConfig) string {
	if strings.HasPrefix(cfg.PublicURL, "http://") || strings.HasPrefix(cfg.PublicURL, "https://") {
		return cfg.PublicURL
	}
	switch {
	case cfg.Backend == "minio":
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	case cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func joinURL(base, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + key
}
