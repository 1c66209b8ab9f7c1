package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/service/registry"
)

type ChargePointHandler struct {
	service *registry.Service
	log     *zap.Logger
}

func NewChargePointHandler(service *registry.Service, log *zap.Logger) *ChargePointHandler {
	return &ChargePointHandler{
		service: service,
		log:     log,
	}
}

func (h *ChargePointHandler) List(c *fiber.Ctx) error {
	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if locationID := c.Query("location_id"); locationID != "" {
		filter["location_id"] = locationID
	}

	chargePoints, err := h.service.ListChargePoints(c.Context(), filter)
	if err != nil {
		h.log.Error("Failed to list charge points", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"charge_points": chargePoints,
		"count":         len(chargePoints),
	})
}

func (h *ChargePointHandler) Get(c *fiber.Ctx) error {
	chargePoint, err := h.service.GetChargePoint(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Charge point not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(chargePoint)
}

type ChargePointStatusRequest struct {
	Status string `json:"status"`
}

func (h *ChargePointHandler) UpdateStatus(c *fiber.Ctx) error {
	var req ChargePointStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.UpdateChargePointStatus(c.Context(), c.Params("id"), domain.ChargePointStatus(req.Status)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Charge point not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
