package services

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// allowedMediaTypes gates uploads to image content
var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// MediaService uploads and removes memory media through the blob store
type MediaService struct {
	blobs  ports.BlobStore
	logger *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(blobs ports.BlobStore, logger *zap.Logger) *MediaService {
	return &MediaService{
		blobs:  blobs,
		logger: logger,
	}
}

// Upload stores an image and returns its reference together with a
// fetchable URL
func (s *MediaService) Upload(ctx context.Context, name, contentType string, body io.Reader) (valueobjects.BlobRef, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if !allowedMediaTypes[normalized] {
		return valueobjects.BlobRef{}, "", pkgerrors.NewValidationError("unsupported media type: " + contentType)
	}

	ref, err := s.blobs.Upload(ctx, name, normalized, body)
	if err != nil {
		return valueobjects.BlobRef{}, "", err
	}

	url, err := s.blobs.FetchURL(ctx, ref)
	if err != nil {
		return valueobjects.BlobRef{}, "", err
	}
	return ref, url, nil
}

// ResolveURL returns a fetchable URL for a stored reference
func (s *MediaService) ResolveURL(ctx context.Context, rawRef string) (string, error) {
	ref, err := valueobjects.NewBlobRef(rawRef)
	if err != nil {
		return "", pkgerrors.NewValidationError(err.Error())
	}
	return s.blobs.FetchURL(ctx, ref)
}

// Delete removes a stored blob
func (s *MediaService) Delete(ctx context.Context, rawRef string) error {
	ref, err := valueobjects.NewBlobRef(rawRef)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	if err := s.blobs.Delete(ctx, ref); err != nil {
		return err
	}
	s.logger.Info("blob deleted", zap.String("ref", ref.String()))
	return nil
}
