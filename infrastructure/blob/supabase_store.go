// Package blob stores uploaded media in Supabase storage.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// SupabaseStore implements the BlobStore port against a Supabase storage
// bucket. Object names are generated server side; the client-supplied name
// only contributes its extension.
type SupabaseStore struct {
	client *supabase.Client
	bucket string
	logger *zap.Logger
}

// NewSupabaseStore creates a new SupabaseStore
func NewSupabaseStore(client *supabase.Client, bucket string, logger *zap.Logger) ports.BlobStore {
	return &SupabaseStore{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Upload stores the blob and returns its reference
func (s *SupabaseStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (valueobjects.BlobRef, error) {
	objectName := uuid.New().String()
	if ext := strings.ToLower(path.Ext(name)); ext != "" {
		objectName += ext
	}

	_, err := s.client.Storage.UploadFile(s.bucket, objectName, body, storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		s.logger.Error("blob upload failed",
			zap.Error(err),
			zap.String("object", objectName),
		)
		return valueobjects.BlobRef{}, pkgerrors.NewExternalError("blob upload failed", err)
	}

	ref, err := valueobjects.NewBlobRef(objectName)
	if err != nil {
		return valueobjects.BlobRef{}, err
	}
	s.logger.Info("blob uploaded",
		zap.String("object", objectName),
		zap.String("contentType", contentType),
	)
	return ref, nil
}

// FetchURL returns a public URL for a stored blob
func (s *SupabaseStore) FetchURL(ctx context.Context, ref valueobjects.BlobRef) (string, error) {
	if ref.IsZero() {
		return "", pkgerrors.NewValidationError("blob reference cannot be empty")
	}
	resp := s.client.Storage.GetPublicUrl(s.bucket, ref.String())
	if resp.SignedURL == "" {
		return "", pkgerrors.NewExternalError("blob url resolution failed", fmt.Errorf("empty url for %s", ref.String()))
	}
	return resp.SignedURL, nil
}

// Delete removes a stored blob. Deleting a reference that no longer exists
// is not an error.
func (s *SupabaseStore) Delete(ctx context.Context, ref valueobjects.BlobRef) error {
	if ref.IsZero() {
		return pkgerrors.NewValidationError("blob reference cannot be empty")
	}
	if _, err := s.client.Storage.RemoveFile(s.bucket, []string{ref.String()}); err != nil {
		s.logger.Error("blob delete failed",
			zap.Error(err),
			zap.String("object", ref.String()),
		)
		return pkgerrors.NewExternalError("blob delete failed", err)
	}
	return nil
}
