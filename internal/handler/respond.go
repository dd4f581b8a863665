package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/middleware"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/service"
)

const (
	maxJSONBody   = 1 << 20  // 1MB
	maxUploadBody = 10 << 20 // 10MB; profile images and receipt photos

	msgUnexpected   = "Beklenmedik bir hata oluştu."
	msgBadRequest   = "Geçersiz istek"
	msgBodyTooLarge = "İstek gövdesi çok büyük"
)

// errorStatus maps service errors to HTTP statuses. The first match wins.
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrProviderTimeout, http.StatusGatewayTimeout},

	{service.ErrOTPDelivery, http.StatusInternalServerError},
	{service.ErrEmailDelivery, http.StatusInternalServerError},
	{service.ErrAnalysisFailed, http.StatusInternalServerError},
	{service.ErrOCRFailed, http.StatusInternalServerError},

	{service.ErrUnknownPhone, http.StatusUnauthorized},
	{service.ErrWrongPassword, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrPhoneNotFound, http.StatusNotFound},
	{service.ErrReceiptNotFound, http.StatusNotFound},

	{service.ErrPhoneRequired, http.StatusBadRequest},
	{service.ErrPasswordRequired, http.StatusBadRequest},
	{service.ErrPasswordTooLong, http.StatusBadRequest},
	{service.ErrUserExists, http.StatusBadRequest},
	{service.ErrInvalidOTP, http.StatusBadRequest},
	{service.ErrResetKeyRequired, http.StatusBadRequest},
	{service.ErrResetVerifyRequired, http.StatusBadRequest},
	{service.ErrResetNotVerified, http.StatusBadRequest},
	{service.ErrEmailNotRegistered, http.StatusBadRequest},
	{service.ErrPhoneNotRegistered, http.StatusBadRequest},
	{service.ErrNoPasswordSet, http.StatusBadRequest},
	{service.ErrNotPasswordUser, http.StatusBadRequest},
	{service.ErrNotPhoneUser, http.StatusBadRequest},
	{service.ErrPasswordMismatch, http.StatusBadRequest},
	{service.ErrInvalidGoogleToken, http.StatusBadRequest},
	{service.ErrTokenRequired, http.StatusBadRequest},
	{service.ErrPhoneTaken, http.StatusBadRequest},
	{service.ErrEmailTaken, http.StatusBadRequest},
	{service.ErrPromptRequired, http.StatusBadRequest},
	{service.ErrImageRequired, http.StatusBadRequest},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) model.MessageResponse {
	return model.MessageResponse{Message: msg}
}

// writeError answers with the status and message of a known service error.
// Server-side failures are logged with their cause; unknown errors become a
// generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	for _, e := range errorStatus {
		if !errors.Is(err, e.err) {
			continue
		}
		if e.status >= http.StatusInternalServerError {
			log.Error(r.Context(), "provider call failed", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, e.status, errorResponse(e.err.Error()))
		return
	}

	log.Error(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse(msgUnexpected))
}

// decodeJSON reads a size-limited JSON body into v. On failure it writes
// the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(msgBodyTooLarge))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(msgBadRequest))
		return false
	}
	return true
}

// currentUser returns the user the auth middleware stored in the request.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(service.ErrInvalidToken.Error()))
		return nil, false
	}
	return user, true
}
