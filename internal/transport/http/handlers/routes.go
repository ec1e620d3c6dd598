package handlers

import (
	"net/http"

	"github.com/vedran77/lawnpool/internal/service"
)

type Services struct {
	Auth     *service.AuthService
	Groups   *service.GroupService
	Offers   *service.OfferService
	Messages *service.MessageService
	// BaseURL overrides the host used for OAuth redirects.
	BaseURL string
}

// RegisterRoutes mounts the JSON API under /api plus the health check.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	authHandler := NewAuthHandler(s.Auth, s.BaseURL)
	groupHandler := NewGroupHandler(s.Groups)
	offerHandler := NewOfferHandler(s.Offers)
	messageHandler := NewMessageHandler(s.Messages)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Identity
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/verify", authHandler.Verify)
	mux.HandleFunc("GET /api/auth/google", authHandler.GoogleStart)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)

	// Groups
	mux.HandleFunc("GET /api/groups", groupHandler.List)
	mux.HandleFunc("POST /api/groups", groupHandler.Create)
	mux.HandleFunc("GET /api/groups/{id}", groupHandler.Get)
	mux.HandleFunc("POST /api/groups/{id}/join", groupHandler.Join)

	// Offers
	mux.HandleFunc("GET /api/offers", offerHandler.List)
	mux.HandleFunc("POST /api/offers", offerHandler.Create)
	mux.HandleFunc("GET /api/offers/{id}", offerHandler.Get)

	// Messages
	mux.HandleFunc("GET /api/messages/{userId}/{otherUserId}", messageHandler.History)
}
