// Package processors exposes the ingestion endpoints the companion
// scrapers call to write third-party data into the store.
package processors

import (
	"context"

	"crax/internal/store"

	"github.com/gofiber/fiber/v3"
)

// ProfileScraper triggers the external LinkedIn scrape.
type ProfileScraper interface {
	ScrapeProfile(ctx context.Context, linkedinURL string) (map[string]any, error)
}

// Handler serves the scraper ingestion endpoints.
type Handler struct {
	// Secret is the shared key scrapers present as a bearer token. When
	// empty, requests are allowed through (matching the deployed scrapers,
	// which run without a key in dev).
	Secret string

	Store    store.Store
	LinkedIn ProfileScraper
}

// Routes wires the processor endpoints under /processors.
func Routes(app fiber.Router, h *Handler) {
	group := app.Group("/processors")

	group.Post("/linkedin", h.linkedinHandler)
	group.Post("/devpost", h.devpostHandler)
}
