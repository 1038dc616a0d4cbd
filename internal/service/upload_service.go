package service

import (
	"context"
	"errors"
	"mime"
	"strings"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Upload errors
var (
	ErrInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP, GIF")
	ErrStorageNotConfigured = errors.New("file storage not configured")
	ErrInvalidStorageID     = errors.New("invalid storage id")
)

// AllowedImageFormats contains the supported image MIME types
var AllowedImageFormats = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadService signs upload targets and resolves stored attachments to URLs
type UploadService struct {
	store storage.BlobStore
}

// NewUploadService creates a new UploadService. A nil store disables uploads.
func NewUploadService(store storage.BlobStore) *UploadService {
	return &UploadService{store: store}
}

// IsEnabled indicates whether uploads are supported (storage configured).
func (s *UploadService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// GenerateUploadURL returns a presigned PUT URL and the storage id the
// client attaches to its message once the upload finishes.
func (s *UploadService) GenerateUploadURL(ctx context.Context, caller uuid.UUID, contentType string) (*storage.UploadTarget, error) {
	if caller == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	if !s.IsEnabled() {
		return nil, ErrStorageNotConfigured
	}
	contentType, ok := normalizeContentType(contentType)
	if !ok {
		return nil, ErrInvalidFormat
	}

	key := storage.NewObjectKey()
	url, err := s.store.GenerateUploadURL(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &storage.UploadTarget{UploadURL: url, StorageID: key}, nil
}

// ResolveURL turns a storage id into a fetchable URL. It returns nil when
// there is nothing to resolve or the URL cannot be signed.
func (s *UploadService) ResolveURL(ctx context.Context, storageID *string) *string {
	if storageID == nil || *storageID == "" || !s.IsEnabled() {
		return nil
	}
	url, err := s.store.GetURL(ctx, *storageID)
	if err != nil {
		log.Warn().Err(err).Str("storage_id", *storageID).Msg("Failed to sign download URL")
		return nil
	}
	return &url
}

// Delete removes a stored object. Missing storage is not an error.
func (s *UploadService) Delete(ctx context.Context, storageID string) error {
	if storageID == "" || !s.IsEnabled() {
		return nil
	}
	return s.store.Delete(ctx, storageID)
}

// ValidateStorageID rejects ids that were not produced by GenerateUploadURL
func ValidateStorageID(storageID string) error {
	if !strings.HasPrefix(storageID, "uploads/") || strings.Contains(storageID, "..") {
		return ErrInvalidStorageID
	}
	return nil
}

// IsValidImageFormat checks if a content type is a valid image format
func IsValidImageFormat(contentType string) bool {
	_, ok := normalizeContentType(contentType)
	return ok
}

func normalizeContentType(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	mediaType = strings.ToLower(mediaType)
	return mediaType, AllowedImageFormats[mediaType]
}
