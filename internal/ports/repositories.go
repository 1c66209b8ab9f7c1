package ports

import (
	"context"
	"time"

	"github.com/voltgrid/opsconsole/internal/domain"
)

type ChargePointRepository interface {
	Save(ctx context.Context, cp *domain.ChargePoint) error
	FindByID(ctx context.Context, id string) (*domain.ChargePoint, error)
	FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.ChargePoint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ChargePointStatus) error
}

type SessionRepository interface {
	Save(ctx context.Context, s *domain.ChargingSession) error
	FindByID(ctx context.Context, id string) (*domain.ChargingSession, error)
	FindByChargePoint(ctx context.Context, chargePointID string, limit, offset int) ([]domain.ChargingSession, error)
	FindActive(ctx context.Context) ([]domain.ChargingSession, error)
}

type LocationRepository interface {
	Save(ctx context.Context, loc *domain.Location) error
	FindByID(ctx context.Context, id string) (*domain.Location, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Location, error)
	Delete(ctx context.Context, id string) error
}

type TariffRepository interface {
	Save(ctx context.Context, tariff *domain.Tariff) error
	FindByID(ctx context.Context, id string) (*domain.Tariff, error)
	FindActive(ctx context.Context) ([]domain.Tariff, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Tariff, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

type PartyRepository interface {
	Save(ctx context.Context, party *domain.Party) error
	FindByID(ctx context.Context, id string) (*domain.Party, error)
	FindByPartyID(ctx context.Context, countryCode, partyID string) (*domain.Party, error)
	FindAll(ctx context.Context, limit, offset int) ([]domain.Party, error)
	UpdateStatus(ctx context.Context, id string, status domain.PartyStatus) error
	Delete(ctx context.Context, id string) error
}

// AnalyticsRepository exposes the pre-aggregated read models the dashboard is
// derived from. Implementations run the aggregation in the database; callers
// never see raw sessions.
type AnalyticsRepository interface {
	// MonthlyUsage returns per-month usage totals for the trailing window,
	// oldest first.
	MonthlyUsage(ctx context.Context, months int) ([]domain.UsagePeriodRecord, error)

	// YearlyUsage returns per-year usage totals, oldest first.
	YearlyUsage(ctx context.Context, years int) ([]domain.UsagePeriodRecord, error)

	// ChargePointUtilization returns one record per charge point with its
	// session, energy, revenue and availability totals over the window.
	ChargePointUtilization(ctx context.Context, from, to time.Time) ([]domain.EntityUtilizationRecord, error)

	// UserActivity returns one record per user with session and consumption
	// totals over the window.
	UserActivity(ctx context.Context, from, to time.Time) ([]domain.UserActivityRecord, error)
}
