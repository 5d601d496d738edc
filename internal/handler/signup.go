package handler

import (
	"net/http"

	"github.com/perevoscic/envitefy-sub005/internal/middleware"
	"github.com/perevoscic/envitefy-sub005/internal/model"
	"github.com/perevoscic/envitefy-sub005/internal/service"
)

// SignupHandler handles sign-up sheet HTTP requests
type SignupHandler struct {
	svc *service.SignupService
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(svc *service.SignupService) *SignupHandler {
	return &SignupHandler{svc: svc}
}

// PutForm handles POST /v1/events/{eventId}/signup-form
func (h *SignupHandler) PutForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	eventID := r.PathValue("eventId")

	var req model.UpsertFormRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	form, err := h.svc.PutForm(ctx, eventID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, service.BuildFormView(form, true), nil)
}

// GetForm handles GET /v1/events/{eventId}/signup-form
func (h *SignupHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	eventID := r.PathValue("eventId")

	form, err := h.svc.GetForm(ctx, eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	isOwner := userID != "" && userID == form.OwnerID
	WriteData(w, http.StatusOK, service.BuildFormView(form, isOwner), nil)
}

// Signup handles POST /v1/events/{eventId}/signup. The body is a tagged
// union: action "reserve" books or updates a response, action "cancel"
// frees one.
func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")

	var req model.SignupActionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	switch req.Action {
	case model.ActionReserve:
		h.reserve(w, r, eventID, req.Reserve())
	case model.ActionCancel:
		h.cancel(w, r, eventID, req.Cancel().SignupID)
	}
}

// CancelSignup handles DELETE /v1/events/{eventId}/signup/{signupId}, a
// REST alias for the cancel action.
func (h *SignupHandler) CancelSignup(w http.ResponseWriter, r *http.Request) {
	h.cancel(w, r, r.PathValue("eventId"), r.PathValue("signupId"))
}

func (h *SignupHandler) reserve(w http.ResponseWriter, r *http.Request, eventID string, req *model.ReserveRequest) {
	ctx := r.Context()
	ident := service.Identity{
		UserID: middleware.GetUserID(ctx),
		Email:  middleware.GetUserEmail(ctx),
		Phone:  middleware.GetUserPhone(ctx),
	}

	outcome, err := h.svc.Reserve(ctx, eventID, ident, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	isOwner := ident.UserID != "" && ident.UserID == outcome.Form.OwnerID
	result := model.SignupResult{
		OK:          true,
		Status:      outcome.Response.Status,
		Form:        service.BuildFormView(outcome.Form, isOwner),
		ManageToken: outcome.ManageToken,
	}
	view := service.BuildResponseView(outcome.Response)
	result.Response = &view

	WriteData(w, http.StatusOK, result, nil)
}

func (h *SignupHandler) cancel(w http.ResponseWriter, r *http.Request, eventID, signupID string) {
	ctx := r.Context()
	auth := service.CancelAuth{
		UserID:      middleware.GetUserID(ctx),
		ManageToken: r.Header.Get("X-Manage-Token"),
	}

	form, err := h.svc.Cancel(ctx, eventID, signupID, auth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	isOwner := auth.UserID != "" && auth.UserID == form.OwnerID
	WriteData(w, http.StatusOK, service.BuildFormView(form, isOwner), nil)
}
