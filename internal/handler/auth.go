package handler

import (
	"context"
	"net/http"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/middleware"
	"github.com/digireceipt/digireceipt-go/internal/model"
)

const (
	msgOTPVerified = "OTP kodu doğrulandı"
	msgLoggedOut   = "Çıkış yapıldı"
)

// AccountService is the account lifecycle the user endpoints expose.
type AccountService interface {
	Signup(ctx context.Context, req model.SignupRequest) error
	CreateAccount(ctx context.Context, req model.CreateAccountRequest) error
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	GoogleLogin(ctx context.Context, req model.GoogleLoginRequest) (string, error)
	PasswordReset(ctx context.Context, req model.PasswordResetRequest) (string, error)
	VerifyPasswordReset(ctx context.Context, req model.PasswordResetVerifyRequest) error
	CompletePasswordReset(ctx context.Context, req model.PasswordResetCompleteRequest) error
	ChangePhone(ctx context.Context, req model.ChangePhoneRequest) error
	ChangePhoneFor(ctx context.Context, user *model.User, req model.ChangePhoneRequest) error
	VerifyChangePhone(ctx context.Context, req model.ChangePhoneVerifyRequest) error
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, user *model.User, req model.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, user *model.User) error
}

// AuthHandler serves the public /api/User endpoints.
type AuthHandler struct {
	service AccountService
	log     logging.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AccountService, log logging.Logger) *AuthHandler {
	return &AuthHandler{service: svc, log: log}
}

// HandleSignup handles POST /api/User/signup.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.Signup(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleCreateAccount handles POST /api/User/createAccountOtpV.
func (h *AuthHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.CreateAccount(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleLogin handles POST /api/User/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}

// HandleGoogleLogin handles POST /api/User/googleLogin.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.GoogleLoginRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	token, err := h.service.GoogleLogin(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}

// HandlePasswordReset handles POST /api/User/passwordReset.
func (h *AuthHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordResetRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	msg, err := h.service.PasswordReset(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// HandlePasswordResetVerify handles POST /api/User/passwordResetOtpV.
func (h *AuthHandler) HandlePasswordResetVerify(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordResetVerifyRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.VerifyPasswordReset(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgOTPVerified})
}

// HandlePasswordResetComplete handles POST /api/User/passwordResetLast.
func (h *AuthHandler) HandlePasswordResetComplete(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordResetCompleteRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.CompletePasswordReset(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleChangePhone handles POST /api/User/changePhone.
func (h *AuthHandler) HandleChangePhone(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePhoneRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.ChangePhone(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleChangePhoneVerify handles POST /api/User/changePhoneOtpV and, behind
// the auth middleware, /api/BaseUser/changePhoneOtpV.
func (h *AuthHandler) HandleChangePhoneVerify(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePhoneVerifyRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.VerifyChangePhone(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleLogout handles POST /api/User/logout. The token is checked here
// rather than by the auth middleware so a missing token is a 400.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgLoggedOut})
}
