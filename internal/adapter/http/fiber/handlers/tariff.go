package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/service/registry"
)

type TariffHandler struct {
	service *registry.Service
	log     *zap.Logger
}

func NewTariffHandler(service *registry.Service, log *zap.Logger) *TariffHandler {
	return &TariffHandler{
		service: service,
		log:     log,
	}
}

func (h *TariffHandler) List(c *fiber.Ctx) error {
	if c.Query("active") == "true" {
		tariffs, err := h.service.ListActiveTariffs(c.Context())
		if err != nil {
			h.log.Error("Failed to list active tariffs", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"tariffs": tariffs, "count": len(tariffs)})
	}

	tariffs, err := h.service.ListTariffs(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		h.log.Error("Failed to list tariffs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"tariffs": tariffs, "count": len(tariffs)})
}

func (h *TariffHandler) Get(c *fiber.Ctx) error {
	tariff, err := h.service.GetTariff(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tariff not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tariff)
}

func (h *TariffHandler) Create(c *fiber.Ctx) error {
	var tariff domain.Tariff
	if err := c.BodyParser(&tariff); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.CreateTariff(c.Context(), &tariff); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(tariff)
}

func (h *TariffHandler) Update(c *fiber.Ctx) error {
	var tariff domain.Tariff
	if err := c.BodyParser(&tariff); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	tariff.ID = c.Params("id")

	if err := h.service.UpdateTariff(c.Context(), &tariff); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tariff not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tariff)
}

func (h *TariffHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteTariff(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tariff not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
