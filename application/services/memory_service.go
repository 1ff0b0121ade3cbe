package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/application/projections"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// CreateMemoryInput carries the fields for a new memory. Image references
// must point at blobs that were already uploaded; the store never persists
// placeholders.
type CreateMemoryInput struct {
	CoupleID            string
	Title               string
	Story               string
	MemoryDate          time.Time
	Place               string
	CoverImageRef       string
	AdditionalImageRefs []string
}

// MemoryService creates and lists memories within a couple's ownership scope
type MemoryService struct {
	profiles ports.ProfileRepository
	couples  ports.CoupleRepository
	memories ports.MemoryRepository
	logger   *zap.Logger
}

// NewMemoryService creates a new memory service
func NewMemoryService(
	profiles ports.ProfileRepository,
	couples ports.CoupleRepository,
	memories ports.MemoryRepository,
	logger *zap.Logger,
) *MemoryService {
	return &MemoryService{
		profiles: profiles,
		couples:  couples,
		memories: memories,
		logger:   logger,
	}
}

// CreateMemory persists a new memory for the caller's active couple.
// Writing requires current membership; former members keep read access only.
func (s *MemoryService) CreateMemory(ctx context.Context, callerID string, input CreateMemoryInput) (*entities.Memory, error) {
	if input.CoupleID == "" {
		return nil, pkgerrors.NewValidationError("coupleId cannot be empty")
	}
	coupleID, err := valueobjects.NewCoupleIDFromString(input.CoupleID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	caller, err := s.profiles.FindByAccountID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.CoupleID().Equals(coupleID) {
		return nil, pkgerrors.NewForbiddenError("memories may only be added to your own couple's timeline")
	}

	var coverImage valueobjects.BlobRef
	if input.CoverImageRef != "" {
		coverImage, err = valueobjects.NewBlobRef(input.CoverImageRef)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
	}
	additional := make([]valueobjects.BlobRef, 0, len(input.AdditionalImageRefs))
	for _, raw := range input.AdditionalImageRefs {
		ref, err := valueobjects.NewBlobRef(raw)
		if err != nil {
			return nil, pkgerrors.NewValidationError(err.Error())
		}
		additional = append(additional, ref)
	}

	memory, err := entities.NewMemory(
		coupleID,
		input.Title,
		input.Story,
		input.MemoryDate,
		input.Place,
		coverImage,
		additional,
		callerID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.memories.Save(ctx, memory); err != nil {
		return nil, err
	}

	s.logger.Info("memory created",
		zap.String("memoryID", memory.ID()),
		zap.String("coupleID", coupleID.String()),
		zap.String("createdBy", callerID),
	)
	return memory, nil
}

// ListMemories returns a couple's memories, most recent event first.
// The ownership scope is enforced strictly: a caller whose profile is not
// (and was never) a member of the couple receives a Forbidden error rather
// than a silent empty result.
func (s *MemoryService) ListMemories(ctx context.Context, callerID string, coupleID valueobjects.CoupleID) ([]*entities.Memory, error) {
	if coupleID.IsZero() {
		return nil, pkgerrors.NewValidationError("coupleId cannot be empty")
	}

	caller, err := s.profiles.FindByAccountID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.BelongsTo(coupleID) {
		return nil, pkgerrors.NewForbiddenError("timeline belongs to a different couple")
	}

	memories, err := s.memories.FindByCoupleID(ctx, coupleID)
	if err != nil {
		return nil, err
	}
	if memories == nil {
		memories = []*entities.Memory{}
	}
	return memories, nil
}

// Timeline returns the caller's memories grouped by year for rendering
func (s *MemoryService) Timeline(ctx context.Context, callerID string, coupleID valueobjects.CoupleID) ([]projections.YearGroup, error) {
	memories, err := s.ListMemories(ctx, callerID, coupleID)
	if err != nil {
		return nil, err
	}
	return projections.GroupByYear(memories), nil
}
