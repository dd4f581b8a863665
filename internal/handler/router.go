package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/middleware"
)

// Handlers bundles what the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Receipt *ReceiptHandler
	Authn   middleware.Authenticator
	Log     logging.Logger
	// TrustProxy enables chi's RealIP. Without it the rate limiter keys on
	// the connection address.
	TrustProxy bool
}

// NewRouter wires every route of the API.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if h.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(h.Log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/User", func(r chi.Router) {
		r.Post("/logout", h.Auth.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/signup", h.Auth.HandleSignup)
			r.Post("/createAccountOtpV", h.Auth.HandleCreateAccount)
			r.Post("/login", h.Auth.HandleLogin)
			r.Post("/googleLogin", h.Auth.HandleGoogleLogin)
			r.Post("/passwordReset", h.Auth.HandlePasswordReset)
			r.Post("/passwordResetOtpV", h.Auth.HandlePasswordResetVerify)
			r.Post("/passwordResetLast", h.Auth.HandlePasswordResetComplete)
			r.Post("/changePhone", h.Auth.HandleChangePhone)
			r.Post("/changePhoneOtpV", h.Auth.HandleChangePhoneVerify)
		})
	})

	r.Route("/api/BaseUser", func(r chi.Router) {
		r.Use(middleware.Auth(h.Authn, h.Log))
		r.Get("/get", h.Profile.HandleGet)
		r.Put("/update", h.Profile.HandleUpdate)
		r.Post("/changePassword", h.Profile.HandleChangePassword)
		r.Post("/changePhone", h.Profile.HandleChangePhone)
		r.Post("/changePhoneOtpV", h.Auth.HandleChangePhoneVerify)
		r.Delete("/deleteAccount", h.Profile.HandleDeleteAccount)
	})

	r.Route("/api/Receipt", func(r chi.Router) {
		r.Post("/ocr", h.Receipt.HandleOCR)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.Authn, h.Log))
			r.Get("/count", h.Receipt.HandleCount)
			r.Get("/favCount", h.Receipt.HandleFavoriteCount)
			r.Get("/all", h.Receipt.HandleList)
			r.Get("/getAllFav", h.Receipt.HandleListFavorites)
			r.Post("/addReceipt", h.Receipt.HandleAdd)
			r.Post("/toggleFavorite/{id}", h.Receipt.HandleToggleFavorite)
			r.Delete("/delete/{id}", h.Receipt.HandleDelete)
			r.Post("/gpt", h.Receipt.HandleAnalyze)
		})
	})

	return r
}
