package processors

import (
	"context"
	"encoding/json"
	"strings"

	"crax/internal/errmsg"
	"crax/internal/events"
	"crax/internal/logger"
	"crax/internal/models"
	"crax/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type devpostRequest struct {
	UserID   string           `json:"user_id"`
	Projects []models.Project `json:"projects"`
}

// devpostHandler ingests the project list emitted by the external Devpost
// scraper, replacing whatever was stored for the user before.
func (h *Handler) devpostHandler(c fiber.Ctx) error {
	if !h.authorized(c) {
		return utils.StatusError(c, errmsg.ProcessorUnauthorized)
	}

	var body devpostRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.ProcessorInvalidPayload)
	}

	body.UserID = strings.TrimSpace(body.UserID)
	if body.UserID == "" {
		return utils.StatusError(c, errmsg.ProcessorMissingUserID)
	}
	if len(body.Projects) == 0 {
		return utils.StatusError(c, errmsg.DevpostProjectsRequired)
	}

	if err := h.Store.ReplaceProjects(context.Background(), body.UserID, body.Projects); err != nil {
		logger.Error("failed to store devpost projects", zap.Error(err))
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	events.Em.DevpostProjectsStored(body.UserID, len(body.Projects))

	logger.Info("devpost projects stored",
		zap.String("user_id", body.UserID),
		zap.Int("projects", len(body.Projects)))

	return c.JSON(fiber.Map{
		"success":         true,
		"projects_stored": len(body.Projects),
	})
}
