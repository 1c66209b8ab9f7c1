package mocks

import (
	"context"
	"time"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	FindAllFunc     func(ctx context.Context, limit, offset int) ([]domain.User, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return []domain.User{}, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockChargePointRepository is a mock implementation of ChargePointRepository
type MockChargePointRepository struct {
	SaveFunc         func(ctx context.Context, cp *domain.ChargePoint) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.ChargePoint, error)
	FindAllFunc      func(ctx context.Context, filter map[string]interface{}) ([]domain.ChargePoint, error)
	UpdateStatusFunc func(ctx context.Context, id string, status domain.ChargePointStatus) error
}

func (m *MockChargePointRepository) Save(ctx context.Context, cp *domain.ChargePoint) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, cp)
	}
	return nil
}

func (m *MockChargePointRepository) FindByID(ctx context.Context, id string) (*domain.ChargePoint, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockChargePointRepository) FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.ChargePoint, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter)
	}
	return []domain.ChargePoint{}, nil
}

func (m *MockChargePointRepository) UpdateStatus(ctx context.Context, id string, status domain.ChargePointStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	SaveFunc              func(ctx context.Context, s *domain.ChargingSession) error
	FindByIDFunc          func(ctx context.Context, id string) (*domain.ChargingSession, error)
	FindByChargePointFunc func(ctx context.Context, chargePointID string, limit, offset int) ([]domain.ChargingSession, error)
	FindActiveFunc        func(ctx context.Context) ([]domain.ChargingSession, error)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *domain.ChargingSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*domain.ChargingSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSessionRepository) FindByChargePoint(ctx context.Context, chargePointID string, limit, offset int) ([]domain.ChargingSession, error) {
	if m.FindByChargePointFunc != nil {
		return m.FindByChargePointFunc(ctx, chargePointID, limit, offset)
	}
	return []domain.ChargingSession{}, nil
}

func (m *MockSessionRepository) FindActive(ctx context.Context) ([]domain.ChargingSession, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return []domain.ChargingSession{}, nil
}

// MockLocationRepository is a mock implementation of LocationRepository
type MockLocationRepository struct {
	SaveFunc     func(ctx context.Context, loc *domain.Location) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Location, error)
	FindAllFunc  func(ctx context.Context, limit, offset int) ([]domain.Location, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *MockLocationRepository) Save(ctx context.Context, loc *domain.Location) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, loc)
	}
	return nil
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockLocationRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return []domain.Location{}, nil
}

func (m *MockLocationRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTariffRepository is a mock implementation of TariffRepository
type MockTariffRepository struct {
	SaveFunc       func(ctx context.Context, tariff *domain.Tariff) error
	FindByIDFunc   func(ctx context.Context, id string) (*domain.Tariff, error)
	FindActiveFunc func(ctx context.Context) ([]domain.Tariff, error)
	FindAllFunc    func(ctx context.Context, limit, offset int) ([]domain.Tariff, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockTariffRepository) Save(ctx context.Context, tariff *domain.Tariff) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tariff)
	}
	return nil
}

func (m *MockTariffRepository) FindByID(ctx context.Context, id string) (*domain.Tariff, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockTariffRepository) FindActive(ctx context.Context) ([]domain.Tariff, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return []domain.Tariff{}, nil
}

func (m *MockTariffRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Tariff, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return []domain.Tariff{}, nil
}

func (m *MockTariffRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPartyRepository is a mock implementation of PartyRepository
type MockPartyRepository struct {
	SaveFunc          func(ctx context.Context, party *domain.Party) error
	FindByIDFunc      func(ctx context.Context, id string) (*domain.Party, error)
	FindByPartyIDFunc func(ctx context.Context, countryCode, partyID string) (*domain.Party, error)
	FindAllFunc       func(ctx context.Context, limit, offset int) ([]domain.Party, error)
	UpdateStatusFunc  func(ctx context.Context, id string, status domain.PartyStatus) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockPartyRepository) Save(ctx context.Context, party *domain.Party) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, party)
	}
	return nil
}

func (m *MockPartyRepository) FindByID(ctx context.Context, id string) (*domain.Party, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPartyRepository) FindByPartyID(ctx context.Context, countryCode, partyID string) (*domain.Party, error) {
	if m.FindByPartyIDFunc != nil {
		return m.FindByPartyIDFunc(ctx, countryCode, partyID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPartyRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Party, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, limit, offset)
	}
	return []domain.Party{}, nil
}

func (m *MockPartyRepository) UpdateStatus(ctx context.Context, id string, status domain.PartyStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockPartyRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository
type MockAnalyticsRepository struct {
	MonthlyUsageFunc           func(ctx context.Context, months int) ([]domain.UsagePeriodRecord, error)
	YearlyUsageFunc            func(ctx context.Context, years int) ([]domain.UsagePeriodRecord, error)
	ChargePointUtilizationFunc func(ctx context.Context, from, to time.Time) ([]domain.EntityUtilizationRecord, error)
	UserActivityFunc           func(ctx context.Context, from, to time.Time) ([]domain.UserActivityRecord, error)
}

func (m *MockAnalyticsRepository) MonthlyUsage(ctx context.Context, months int) ([]domain.UsagePeriodRecord, error) {
	if m.MonthlyUsageFunc != nil {
		return m.MonthlyUsageFunc(ctx, months)
	}
	return []domain.UsagePeriodRecord{}, nil
}

func (m *MockAnalyticsRepository) YearlyUsage(ctx context.Context, years int) ([]domain.UsagePeriodRecord, error) {
	if m.YearlyUsageFunc != nil {
		return m.YearlyUsageFunc(ctx, years)
	}
	return []domain.UsagePeriodRecord{}, nil
}

func (m *MockAnalyticsRepository) ChargePointUtilization(ctx context.Context, from, to time.Time) ([]domain.EntityUtilizationRecord, error) {
	if m.ChargePointUtilizationFunc != nil {
		return m.ChargePointUtilizationFunc(ctx, from, to)
	}
	return []domain.EntityUtilizationRecord{}, nil
}

func (m *MockAnalyticsRepository) UserActivity(ctx context.Context, from, to time.Time) ([]domain.UserActivityRecord, error) {
	if m.UserActivityFunc != nil {
		return m.UserActivityFunc(ctx, from, to)
	}
	return []domain.UserActivityRecord{}, nil
}
