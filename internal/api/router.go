package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/vibecard/internal/cardservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced; it guards the
// generative-text quota, not end users.
func NewRouter(svc *cardservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/vibes", h.ListVibes)

	// Cards.
	r.Post("/cards", h.ComposeCard)
	r.Post("/cards/encode", h.EncodeCard)
	r.Get("/cards/decode", h.DecodeCard)

	// Messages.
	r.Post("/messages", h.GenerateMessage)

	// Session-only photos.
	r.Post("/photos", h.UploadPhoto)

	return r
}
