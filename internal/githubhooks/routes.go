// Package githubhooks receives and ingests GitHub push webhooks.
package githubhooks

import "github.com/gofiber/fiber/v3"

// Routes wires the webhook endpoints under /webhooks.
func Routes(app fiber.Router, h *Handler) {
	group := app.Group("/webhooks")

	// POST /webhooks/github ingests push notifications from GitHub.
	group.Post("/github", h.pushHandler)
}
