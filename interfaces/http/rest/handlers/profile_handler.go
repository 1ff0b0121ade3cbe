package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/application/services"
	"snaptales/domain/entities"
	"snaptales/pkg/auth"
	"snaptales/pkg/common"
	pkgerrors "snaptales/pkg/errors"
	"snaptales/pkg/utils"
)

// ProfileHandler handles profile reads and owner edits
type ProfileHandler struct {
	profileService *services.ProfileService
	directory      ports.AccountDirectory
	errors         *pkgerrors.ErrorHandler
	logger         *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	profileService *services.ProfileService,
	directory ports.AccountDirectory,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		directory:      directory,
		errors:         errors,
		logger:         logger,
	}
}

// ProfileResponse is the wire representation of a profile
type ProfileResponse struct {
	AccountID         string `json:"accountId"`
	Email             string `json:"email"`
	DisplayName       string `json:"displayName"`
	Bio               string `json:"bio,omitempty"`
	PartnerName       string `json:"partnerName,omitempty"`
	RelationshipStart string `json:"relationshipStart,omitempty"`
	Anniversary       string `json:"anniversary,omitempty"`
	Location          string `json:"location,omitempty"`
	AvatarRef         string `json:"avatarRef,omitempty"`
	CoupleID          string `json:"coupleId,omitempty"`
	PreviousCoupleID  string `json:"previousCoupleId,omitempty"`
	Verified          bool   `json:"verified"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func toProfileResponse(profile *entities.Profile) *ProfileResponse {
	return &ProfileResponse{
		AccountID:         profile.AccountID(),
		Email:             profile.Email(),
		DisplayName:       profile.DisplayName(),
		Bio:               profile.Bio(),
		PartnerName:       profile.PartnerName(),
		RelationshipStart: profile.RelationshipStart(),
		Anniversary:       profile.Anniversary(),
		Location:          profile.Location(),
		AvatarRef:         profile.AvatarRef().String(),
		CoupleID:          profile.CoupleID().String(),
		PreviousCoupleID:  profile.PreviousCoupleID().String(),
		Verified:          profile.IsVerified(),
		CreatedAt:         profile.CreatedAt().Format(time.RFC3339),
		UpdatedAt:         profile.UpdatedAt().Format(time.RFC3339),
	}
}

// UpdateProfileRequest represents the request body for editing a profile.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName       *string `json:"displayName,omitempty" validate:"omitempty,min=1,max=100"`
	Bio               *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	PartnerName       *string `json:"partnerName,omitempty" validate:"omitempty,max=100"`
	RelationshipStart *string `json:"relationshipStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Anniversary       *string `json:"anniversary,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Location          *string `json:"location,omitempty" validate:"omitempty,max=200"`
}

// SetAvatarRequest represents the request body for replacing the avatar
type SetAvatarRequest struct {
	Ref string `json:"ref" validate:"required"`
}

// Me handles GET /profiles/me. A valid token whose profile has not been
// bootstrapped yet is resolved against the directory first.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userCtx.AccountID)
	if pkgerrors.IsNotFound(err) {
		account, dirErr := h.directory.CurrentPrincipal(r.Context(), userCtx.Token)
		if dirErr != nil {
			h.errors.Handle(w, r, dirErr)
			return
		}
		profile, err = h.profileService.EnsureProfile(r.Context(), account)
	}
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// Update handles PUT /profiles/me
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateProfileRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), userCtx.AccountID, userCtx.AccountID, entities.ProfileUpdate{
		DisplayName:       req.DisplayName,
		Bio:               req.Bio,
		PartnerName:       req.PartnerName,
		RelationshipStart: req.RelationshipStart,
		Anniversary:       req.Anniversary,
		Location:          req.Location,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// SetAvatar handles PUT /profiles/me/avatar
func (h *ProfileHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req SetAvatarRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	profile, err := h.profileService.SetAvatar(r.Context(), userCtx.AccountID, req.Ref)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toProfileResponse(profile))
}
