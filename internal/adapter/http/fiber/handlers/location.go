package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/service/registry"
)

type LocationHandler struct {
	service *registry.Service
	log     *zap.Logger
}

func NewLocationHandler(service *registry.Service, log *zap.Logger) *LocationHandler {
	return &LocationHandler{
		service: service,
		log:     log,
	}
}

func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.service.ListLocations(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		h.log.Error("Failed to list locations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"locations": locations,
		"count":     len(locations),
	})
}

func (h *LocationHandler) Get(c *fiber.Ctx) error {
	location, err := h.service.GetLocation(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(location)
}

func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var location domain.Location
	if err := c.BodyParser(&location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.CreateLocation(c.Context(), &location); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var location domain.Location
	if err := c.BodyParser(&location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	location.ID = c.Params("id")

	if err := h.service.UpdateLocation(c.Context(), &location); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(location)
}

func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteLocation(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
