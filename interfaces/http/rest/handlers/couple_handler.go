package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"snaptales/application/services"
	"snaptales/domain/entities"
	"snaptales/pkg/auth"
	"snaptales/pkg/common"
	pkgerrors "snaptales/pkg/errors"
	"snaptales/pkg/utils"
)

// CoupleHandler handles pairing, disconnection and couple metadata
type CoupleHandler struct {
	pairingService *services.PairingService
	errors         *pkgerrors.ErrorHandler
	logger         *zap.Logger
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(pairingService *services.PairingService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *CoupleHandler {
	return &CoupleHandler{
		pairingService: pairingService,
		errors:         errors,
		logger:         logger,
	}
}

// PairRequest represents the request body for linking with a partner
type PairRequest struct {
	PartnerID string `json:"partnerId" validate:"required"`
}

// RenameCoupleRequest represents the request body for renaming the couple
type RenameCoupleRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// MemberResponse is the wire representation of a couple member
type MemberResponse struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// CoupleResponse is the wire representation of a couple
type CoupleResponse struct {
	ID             string           `json:"id"`
	Members        []MemberResponse `json:"members"`
	DisplayName    string           `json:"displayName"`
	Active         bool             `json:"active"`
	CreatedBy      string           `json:"createdBy"`
	CreatedAt      string           `json:"createdAt"`
	DisconnectedAt string           `json:"disconnectedAt,omitempty"`
	DisconnectedBy string           `json:"disconnectedBy,omitempty"`
}

func toCoupleResponse(couple *entities.Couple) *CoupleResponse {
	resp := &CoupleResponse{
		ID: couple.ID().String(),
		Members: []MemberResponse{
			{AccountID: couple.MemberA().AccountID, Name: couple.MemberA().Name, Email: couple.MemberA().Email},
			{AccountID: couple.MemberB().AccountID, Name: couple.MemberB().Name, Email: couple.MemberB().Email},
		},
		DisplayName: couple.DisplayName(),
		Active:      couple.Active(),
		CreatedBy:   couple.CreatedBy(),
		CreatedAt:   couple.CreatedAt().Format(time.RFC3339),
	}
	if couple.DisconnectedAt() != nil {
		resp.DisconnectedAt = couple.DisconnectedAt().Format(time.RFC3339)
		resp.DisconnectedBy = couple.DisconnectedBy()
	}
	return resp
}

// Pair handles POST /couples
func (h *CoupleHandler) Pair(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req PairRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	couple, err := h.pairingService.Pair(r.Context(), userCtx.AccountID, req.PartnerID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toCoupleResponse(couple))
}

// Current handles GET /couples/current. An unpaired caller receives a null
// couple, not an error.
func (h *CoupleHandler) Current(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	couple, err := h.pairingService.CurrentCouple(r.Context(), userCtx.AccountID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if couple == nil {
		common.RespondJSON(w, http.StatusOK, nil)
		return
	}
	common.RespondJSON(w, http.StatusOK, toCoupleResponse(couple))
}

// Disconnect handles DELETE /couples/current
func (h *CoupleHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.pairingService.Disconnect(r.Context(), userCtx.AccountID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// Rename handles PUT /couples/current/name
func (h *CoupleHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req RenameCoupleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	couple, err := h.pairingService.RenameCouple(r.Context(), userCtx.AccountID, req.Name)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toCoupleResponse(couple))
}
