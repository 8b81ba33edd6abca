package processors

import (
	"context"
	"encoding/json"
	"strings"

	"crax/internal/errmsg"
	"crax/internal/events"
	"crax/internal/logger"
	"crax/internal/store"
	"crax/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type linkedinRequest struct {
	LinkedInURL string `json:"linkedin_url"`
	UserID      string `json:"user_id"`
}

// linkedinHandler triggers the external scrape for one profile URL and
// stores the raw payload on the user's profile row. A missing profile row
// is not fatal: the scrape result is still returned to the caller.
func (h *Handler) linkedinHandler(c fiber.Ctx) error {
	if !h.authorized(c) {
		return utils.StatusError(c, errmsg.ProcessorUnauthorized)
	}

	var body linkedinRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.ProcessorInvalidPayload)
	}

	body.LinkedInURL = strings.TrimSpace(body.LinkedInURL)
	body.UserID = strings.TrimSpace(body.UserID)

	if body.LinkedInURL == "" {
		return utils.StatusError(c, errmsg.LinkedInURLRequired)
	}
	if body.UserID == "" {
		return utils.StatusError(c, errmsg.ProcessorMissingUserID)
	}
	if !strings.HasPrefix(body.LinkedInURL, "https://www.linkedin.com/") &&
		!strings.HasPrefix(body.LinkedInURL, "https://linkedin.com/") {
		return utils.StatusError(c, errmsg.LinkedInURLInvalid)
	}

	logger.Info("processing linkedin profile",
		zap.String("user_id", body.UserID),
		zap.String("url", body.LinkedInURL))

	profile, err := h.LinkedIn.ScrapeProfile(context.Background(), body.LinkedInURL)
	if err != nil {
		logger.Error("linkedin scrape failed", zap.Error(err))
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	updated := true
	if err := h.Store.UpdateLinkedInData(context.Background(), body.UserID, profile); err != nil {
		if err != store.ErrProfileNotFound {
			return utils.StatusError(c, errmsg.InternalServerError(err))
		}
		logger.Warn("no profile row for linkedin update", zap.String("user_id", body.UserID))
		updated = false
	}

	if updated {
		events.Em.LinkedInProfileUpdated(body.UserID)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"profile":          profile,
		"database_updated": updated,
	})
}
