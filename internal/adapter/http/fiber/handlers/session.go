package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/service/registry"
)

type SessionHandler struct {
	service *registry.Service
	log     *zap.Logger
}

func NewSessionHandler(service *registry.Service, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

// ListActive returns the sessions currently charging across the network.
func (h *SessionHandler) ListActive(c *fiber.Ctx) error {
	sessions, err := h.service.ListActiveSessions(c.Context())
	if err != nil {
		h.log.Error("Failed to list active sessions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session, err := h.service.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(session)
}

// ListByChargePoint returns the session history for one charge point.
func (h *SessionHandler) ListByChargePoint(c *fiber.Ctx) error {
	sessions, err := h.service.ListChargePointSessions(c.Context(), c.Params("id"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Charge point not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}
