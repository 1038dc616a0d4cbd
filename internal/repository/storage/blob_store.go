package storage

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
)

// Presigned URL lifetimes
const (
	UploadURLExpiry   = 15 * time.Minute
	DownloadURLExpiry = time.Hour
)

// UploadTarget is where a client should PUT a file, and the key it should
// attach to a message afterwards.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	StorageID string `json:"storageId"`
}

// BlobStore signs upload and download URLs for message attachments
type BlobStore interface {
	GenerateUploadURL(ctx context.Context, objectKey, contentType string) (string, error)
	GetURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

// NewObjectKey returns a fresh, unguessable object key under the uploads prefix
func NewObjectKey() string {
	return path.Join("uploads", time.Now().UTC().Format("2006/01/02"), uuid.NewString())
}
