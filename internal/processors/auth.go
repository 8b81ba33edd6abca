package processors

import (
	"crypto/subtle"
	"strings"

	"crax/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// authorized checks the shared-secret bearer token. Comparison is
// constant-time; a missing secret config allows all requests.
func (h *Handler) authorized(c fiber.Ctx) bool {
	if h.Secret == "" {
		logger.Warn("processor secret not configured, skipping authorization")
		return true
	}

	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")

	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) == 1
}
