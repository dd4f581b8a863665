package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a bearer token to the user holding it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth returns middleware that requires a valid Bearer session token and
// stores the authenticated user in the request context.
func Auth(authn Authenticator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, service.ErrInvalidToken.Error())
				return
			}

			user, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					writeJSONError(w, http.StatusUnauthorized, service.ErrInvalidToken.Error())
					return
				}
				log.Error(r.Context(), "authenticate request", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "Beklenmedik bir hata oluştu.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.MessageResponse{Message: msg})
}
