package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"snaptales/application/projections"
	"snaptales/application/services"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	"snaptales/pkg/auth"
	"snaptales/pkg/common"
	pkgerrors "snaptales/pkg/errors"
	"snaptales/pkg/utils"
)

// MemoryHandler handles memory creation and timeline reads
type MemoryHandler struct {
	memoryService *services.MemoryService
	errors        *pkgerrors.ErrorHandler
	logger        *zap.Logger
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(memoryService *services.MemoryService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{
		memoryService: memoryService,
		errors:        errors,
		logger:        logger,
	}
}

// CreateMemoryRequest represents the request body for creating a memory
type CreateMemoryRequest struct {
	CoupleID            string   `json:"coupleId" validate:"required"`
	Title               string   `json:"title" validate:"required,min=1,max=200"`
	Story               string   `json:"story" validate:"required,min=1"`
	MemoryDate          string   `json:"memoryDate" validate:"required,datetime=2006-01-02"`
	Place               string   `json:"place,omitempty" validate:"omitempty,max=200"`
	CoverImageRef       string   `json:"coverImageRef,omitempty"`
	AdditionalImageRefs []string `json:"additionalImageRefs,omitempty" validate:"omitempty,max=10"`
}

// MemoryResponse is the wire representation of a memory
type MemoryResponse struct {
	ID               string   `json:"id"`
	CoupleID         string   `json:"coupleId"`
	Title            string   `json:"title"`
	Story            string   `json:"story"`
	MemoryDate       string   `json:"memoryDate"`
	Place            string   `json:"place,omitempty"`
	CoverImage       string   `json:"coverImage,omitempty"`
	AdditionalImages []string `json:"additionalImages,omitempty"`
	CreatedBy        string   `json:"createdBy"`
	CreatedAt        string   `json:"createdAt"`
}

// YearGroupResponse is one year of the timeline, most recent year first
type YearGroupResponse struct {
	Year     int               `json:"year"`
	Memories []*MemoryResponse `json:"memories"`
}

func toMemoryResponse(memory *entities.Memory) *MemoryResponse {
	resp := &MemoryResponse{
		ID:         memory.ID(),
		CoupleID:   memory.CoupleID().String(),
		Title:      memory.Title(),
		Story:      memory.Story(),
		MemoryDate: utils.FormatMemoryDate(memory.MemoryDate()),
		Place:      memory.Place(),
		CreatedBy:  memory.CreatedBy(),
		CreatedAt:  memory.CreatedAt().Format(time.RFC3339),
	}
	if !memory.CoverImage().IsZero() {
		resp.CoverImage = memory.CoverImage().String()
	}
	for _, ref := range memory.AdditionalImages() {
		resp.AdditionalImages = append(resp.AdditionalImages, ref.String())
	}
	return resp
}

func toMemoryResponses(memories []*entities.Memory) []*MemoryResponse {
	result := make([]*MemoryResponse, 0, len(memories))
	for _, memory := range memories {
		result = append(result, toMemoryResponse(memory))
	}
	return result
}

func toTimelineResponse(groups []projections.YearGroup) []YearGroupResponse {
	result := make([]YearGroupResponse, 0, len(groups))
	for _, group := range groups {
		result = append(result, YearGroupResponse{
			Year:     group.Year,
			Memories: toMemoryResponses(group.Memories),
		})
	}
	return result
}

// Create handles POST /memories
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateMemoryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	memoryDate, err := utils.ParseMemoryDate(req.MemoryDate)
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("memoryDate must be a valid YYYY-MM-DD date"))
		return
	}

	memory, err := h.memoryService.CreateMemory(r.Context(), userCtx.AccountID, services.CreateMemoryInput{
		CoupleID:            req.CoupleID,
		Title:               req.Title,
		Story:               req.Story,
		MemoryDate:          memoryDate,
		Place:               req.Place,
		CoverImageRef:       req.CoverImageRef,
		AdditionalImageRefs: req.AdditionalImageRefs,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toMemoryResponse(memory))
}

// List handles GET /couples/{coupleID}/memories
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	coupleID, err := valueobjects.NewCoupleIDFromString(chi.URLParam(r, "coupleID"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid couple id"))
		return
	}

	memories, err := h.memoryService.ListMemories(r.Context(), userCtx.AccountID, coupleID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toMemoryResponses(memories))
}

// Timeline handles GET /couples/{coupleID}/timeline
func (h *MemoryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	coupleID, err := valueobjects.NewCoupleIDFromString(chi.URLParam(r, "coupleID"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid couple id"))
		return
	}

	groups, err := h.memoryService.Timeline(r.Context(), userCtx.AccountID, coupleID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toTimelineResponse(groups))
}
