// Package registry manages the operator-editable master data behind the
// console: locations, tariffs, roaming parties and the charge point fleet.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/adapter/queue"
	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

// SubjectRegistryUpdated announces master data changes so cached dashboard
// inputs can be refreshed.
const SubjectRegistryUpdated = "registry.updated"

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type Service struct {
	locations    ports.LocationRepository
	tariffs      ports.TariffRepository
	parties      ports.PartyRepository
	chargePoints ports.ChargePointRepository
	sessions     ports.SessionRepository
	mq           queue.MessageQueue
	log          *zap.Logger
}

func NewService(
	locations ports.LocationRepository,
	tariffs ports.TariffRepository,
	parties ports.PartyRepository,
	chargePoints ports.ChargePointRepository,
	sessions ports.SessionRepository,
	mq queue.MessageQueue,
	log *zap.Logger,
) *Service {
	return &Service{
		locations:    locations,
		tariffs:      tariffs,
		parties:      parties,
		chargePoints: chargePoints,
		sessions:     sessions,
		mq:           mq,
		log:          log,
	}
}

// --- Locations ---

func (s *Service) CreateLocation(ctx context.Context, loc *domain.Location) error {
	if loc.Name == "" {
		return errors.New("location name is required")
	}
	if loc.TariffID != "" {
		if _, err := s.tariffs.FindByID(ctx, loc.TariffID); err != nil {
			return fmt.Errorf("tariff %s: %w", loc.TariffID, err)
		}
	}
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if err := s.locations.Save(ctx, loc); err != nil {
		return err
	}
	s.publishUpdate("location", loc.ID)
	return nil
}

func (s *Service) UpdateLocation(ctx context.Context, loc *domain.Location) error {
	if _, err := s.locations.FindByID(ctx, loc.ID); err != nil {
		return err
	}
	if loc.Name == "" {
		return errors.New("location name is required")
	}
	if loc.TariffID != "" {
		if _, err := s.tariffs.FindByID(ctx, loc.TariffID); err != nil {
			return fmt.Errorf("tariff %s: %w", loc.TariffID, err)
		}
	}
	if err := s.locations.Save(ctx, loc); err != nil {
		return err
	}
	s.publishUpdate("location", loc.ID)
	return nil
}

func (s *Service) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	return s.locations.FindByID(ctx, id)
}

func (s *Service) ListLocations(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	return s.locations.FindAll(ctx, clampLimit(limit), clampOffset(offset))
}

func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	if err := s.locations.Delete(ctx, id); err != nil {
		return err
	}
	s.publishUpdate("location", id)
	return nil
}

// --- Tariffs ---

func (s *Service) CreateTariff(ctx context.Context, tariff *domain.Tariff) error {
	if err := validateTariff(tariff); err != nil {
		return err
	}
	if tariff.ID == "" {
		tariff.ID = uuid.NewString()
	}
	if err := s.tariffs.Save(ctx, tariff); err != nil {
		return err
	}
	s.publishUpdate("tariff", tariff.ID)
	return nil
}

func (s *Service) UpdateTariff(ctx context.Context, tariff *domain.Tariff) error {
	if _, err := s.tariffs.FindByID(ctx, tariff.ID); err != nil {
		return err
	}
	if err := validateTariff(tariff); err != nil {
		return err
	}
	if err := s.tariffs.Save(ctx, tariff); err != nil {
		return err
	}
	s.publishUpdate("tariff", tariff.ID)
	return nil
}

func (s *Service) GetTariff(ctx context.Context, id string) (*domain.Tariff, error) {
	return s.tariffs.FindByID(ctx, id)
}

func (s *Service) ListTariffs(ctx context.Context, limit, offset int) ([]domain.Tariff, error) {
	return s.tariffs.FindAll(ctx, clampLimit(limit), clampOffset(offset))
}

func (s *Service) ListActiveTariffs(ctx context.Context) ([]domain.Tariff, error) {
	return s.tariffs.FindActive(ctx)
}

func (s *Service) DeleteTariff(ctx context.Context, id string) error {
	if err := s.tariffs.Delete(ctx, id); err != nil {
		return err
	}
	s.publishUpdate("tariff", id)
	return nil
}

func validateTariff(tariff *domain.Tariff) error {
	if tariff.Name == "" {
		return errors.New("tariff name is required")
	}
	if len(tariff.Currency) != 3 {
		return fmt.Errorf("invalid currency code %q", tariff.Currency)
	}
	if tariff.PricePerKWh < 0 {
		return errors.New("price per kWh must not be negative")
	}
	if tariff.IdleFeePerMinute < 0 {
		return errors.New("idle fee must not be negative")
	}
	return nil
}

// --- Roaming parties ---

func (s *Service) CreateParty(ctx context.Context, party *domain.Party) error {
	if err := validateParty(party); err != nil {
		return err
	}
	if party.ID == "" {
		party.ID = uuid.NewString()
	}
	party.Status = domain.PartyStatusPending
	if err := s.parties.Save(ctx, party); err != nil {
		return err
	}
	s.publishUpdate("party", party.ID)
	return nil
}

func (s *Service) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	return s.parties.FindByID(ctx, id)
}

func (s *Service) ListParties(ctx context.Context, limit, offset int) ([]domain.Party, error) {
	return s.parties.FindAll(ctx, clampLimit(limit), clampOffset(offset))
}

func (s *Service) DeleteParty(ctx context.Context, id string) error {
	party, err := s.parties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if party.Status == domain.PartyStatusRegistered {
		return errors.New("party is registered, unregister before deleting")
	}
	if err := s.parties.Delete(ctx, id); err != nil {
		return err
	}
	s.publishUpdate("party", id)
	return nil
}

func validateParty(party *domain.Party) error {
	if len(party.PartyID) != 3 {
		return fmt.Errorf("invalid party id %q", party.PartyID)
	}
	if len(party.CountryCode) != 2 {
		return fmt.Errorf("invalid country code %q", party.CountryCode)
	}
	if party.Role != domain.PartyRoleCPO && party.Role != domain.PartyRoleEMSP {
		return fmt.Errorf("invalid party role %q", party.Role)
	}
	if party.EndpointURL == "" {
		return errors.New("endpoint URL is required")
	}
	return nil
}

// --- Charge points ---

func (s *Service) GetChargePoint(ctx context.Context, id string) (*domain.ChargePoint, error) {
	return s.chargePoints.FindByID(ctx, id)
}

func (s *Service) ListChargePoints(ctx context.Context, filter map[string]interface{}) ([]domain.ChargePoint, error) {
	return s.chargePoints.FindAll(ctx, filter)
}

func (s *Service) UpdateChargePointStatus(ctx context.Context, id string, status domain.ChargePointStatus) error {
	if err := s.chargePoints.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.publishUpdate("charge_point", id)
	return nil
}

// --- Charging sessions ---

func (s *Service) GetSession(ctx context.Context, id string) (*domain.ChargingSession, error) {
	return s.sessions.FindByID(ctx, id)
}

func (s *Service) ListActiveSessions(ctx context.Context) ([]domain.ChargingSession, error) {
	return s.sessions.FindActive(ctx)
}

func (s *Service) ListChargePointSessions(ctx context.Context, chargePointID string, limit, offset int) ([]domain.ChargingSession, error) {
	if _, err := s.chargePoints.FindByID(ctx, chargePointID); err != nil {
		return nil, err
	}
	return s.sessions.FindByChargePoint(ctx, chargePointID, clampLimit(limit), clampOffset(offset))
}

func (s *Service) publishUpdate(entity, id string) {
	if s.mq == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"entity": entity, "id": id})
	if err := s.mq.Publish(SubjectRegistryUpdated, payload); err != nil {
		s.log.Error("Failed to publish registry update",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
