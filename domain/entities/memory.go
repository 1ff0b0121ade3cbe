package entities

import (
	"time"

	"github.com/google/uuid"

	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// Memory is one entry in a couple's shared timeline. MemoryDate is the
// calendar date of the remembered event, distinct from CreatedAt.
type Memory struct {
	id               string
	coupleID         valueobjects.CoupleID
	title            string
	story            string
	memoryDate       time.Time
	place            string
	coverImage       valueobjects.BlobRef
	additionalImages []valueobjects.BlobRef
	createdBy        string
	createdAt        time.Time
}

// NewMemory creates a memory owned by a couple
func NewMemory(
	coupleID valueobjects.CoupleID,
	title, story string,
	memoryDate time.Time,
	place string,
	coverImage valueobjects.BlobRef,
	additionalImages []valueobjects.BlobRef,
	createdBy string,
) (*Memory, error) {
	if coupleID.IsZero() {
		return nil, pkgerrors.NewValidationError("coupleId cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}
	if story == "" {
		return nil, pkgerrors.NewValidationError("story cannot be empty")
	}
	if memoryDate.IsZero() {
		return nil, pkgerrors.NewValidationError("memoryDate is required")
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}
	for _, ref := range additionalImages {
		if ref.IsZero() {
			return nil, pkgerrors.NewValidationError("additional image reference is empty")
		}
	}

	return &Memory{
		id:               uuid.New().String(),
		coupleID:         coupleID,
		title:            title,
		story:            story,
		memoryDate:       memoryDate.UTC(),
		place:            place,
		coverImage:       coverImage,
		additionalImages: additionalImages,
		createdBy:        createdBy,
		createdAt:        time.Now().UTC(),
	}, nil
}

// ReconstructMemory rebuilds a memory from repository data with preserved
// id and timestamps
func ReconstructMemory(
	id string,
	coupleID valueobjects.CoupleID,
	title, story string,
	memoryDate time.Time,
	place string,
	coverImage valueobjects.BlobRef,
	additionalImages []valueobjects.BlobRef,
	createdBy string,
	createdAt time.Time,
) (*Memory, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("memory id cannot be empty")
	}
	if coupleID.IsZero() {
		return nil, pkgerrors.NewValidationError("coupleId cannot be empty")
	}
	return &Memory{
		id:               id,
		coupleID:         coupleID,
		title:            title,
		story:            story,
		memoryDate:       memoryDate,
		place:            place,
		coverImage:       coverImage,
		additionalImages: additionalImages,
		createdBy:        createdBy,
		createdAt:        createdAt,
	}, nil
}

func (m *Memory) ID() string                               { return m.id }
func (m *Memory) CoupleID() valueobjects.CoupleID          { return m.coupleID }
func (m *Memory) Title() string                            { return m.title }
func (m *Memory) Story() string                            { return m.story }
func (m *Memory) MemoryDate() time.Time                    { return m.memoryDate }
func (m *Memory) Place() string                            { return m.place }
func (m *Memory) CoverImage() valueobjects.BlobRef         { return m.coverImage }
func (m *Memory) AdditionalImages() []valueobjects.BlobRef { return m.additionalImages }
func (m *Memory) CreatedBy() string                        { return m.createdBy }
func (m *Memory) CreatedAt() time.Time                     { return m.createdAt }

// Year returns the calendar year of the remembered event
func (m *Memory) Year() int {
	return m.memoryDate.Year()
}
