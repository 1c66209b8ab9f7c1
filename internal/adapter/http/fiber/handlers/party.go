package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
	"github.com/voltgrid/opsconsole/internal/service/registry"
)

// PartyHandler exposes roaming party CRUD plus the credentials handshake
// that moves a party between Pending and Registered.
type PartyHandler struct {
	service   *registry.Service
	registrar ports.PartyRegistrar
	log       *zap.Logger
}

func NewPartyHandler(service *registry.Service, registrar ports.PartyRegistrar, log *zap.Logger) *PartyHandler {
	return &PartyHandler{
		service:   service,
		registrar: registrar,
		log:       log,
	}
}

func (h *PartyHandler) List(c *fiber.Ctx) error {
	parties, err := h.service.ListParties(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		h.log.Error("Failed to list parties", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"parties": parties, "count": len(parties)})
}

func (h *PartyHandler) Get(c *fiber.Ctx) error {
	party, err := h.service.GetParty(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(party)
}

func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var party domain.Party
	if err := c.BodyParser(&party); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.CreateParty(c.Context(), &party); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(party)
}

func (h *PartyHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteParty(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Register runs the outbound credentials handshake against the party's
// endpoint and returns the updated party.
func (h *PartyHandler) Register(c *fiber.Ctx) error {
	party, err := h.registrar.Register(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
		}
		h.log.Error("Party registration failed", zap.String("party_id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(party)
}

// Unregister revokes the exchanged credentials. The party is suspended
// locally even when the remote side cannot be reached.
func (h *PartyHandler) Unregister(c *fiber.Ctx) error {
	if err := h.registrar.Unregister(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Party not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
