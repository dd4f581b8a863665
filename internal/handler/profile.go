package handler

import (
	"context"
	"net/http"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
)

const (
	msgProfileUpdated  = "Kullanıcı profili başarıyla güncellendi"
	msgPasswordUpdated = "Kullanıcı şifresi başarıyla güncellendi."
	msgAccountDeleted  = "Hesap başarıyla silindi"
)

type ProfileService interface {
	Get(ctx context.Context, userID int64) (model.ProfileResponse, error)
	Update(ctx context.Context, userID int64, req model.ProfileRequest) error
}

// ProfileHandler serves the authenticated /api/BaseUser endpoints.
type ProfileHandler struct {
	profiles ProfileService
	accounts AccountService
	log      logging.Logger
}

func NewProfileHandler(profiles ProfileService, accounts AccountService, log logging.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts, log: log}
}

// HandleGet handles GET /api/BaseUser/get.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	resp, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /api/BaseUser/update.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, maxUploadBody, &req) {
		return
	}

	if err := h.profiles.Update(r.Context(), user.ID, req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgProfileUpdated})
}

// HandleChangePassword handles POST /api/BaseUser/changePassword.
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), user, req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgPasswordUpdated})
}

// HandleChangePhone handles POST /api/BaseUser/changePhone.
func (h *ProfileHandler) HandleChangePhone(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.ChangePhoneRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.accounts.ChangePhoneFor(r.Context(), user, req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleDeleteAccount handles DELETE /api/BaseUser/deleteAccount.
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), user); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgAccountDeleted})
}
