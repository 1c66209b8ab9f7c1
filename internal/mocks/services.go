package mocks

import (
	"context"

	"github.com/voltgrid/opsconsole/internal/domain"
)

// MockSnapshotProvider is a mock implementation of SnapshotProvider
type MockSnapshotProvider struct {
	UsageSnapshotFunc func(ctx context.Context) (domain.UsageSnapshot, error)
	UtilizationFunc   func(ctx context.Context, rng domain.DateRange) ([]domain.EntityUtilizationRecord, error)
	UserActivityFunc  func(ctx context.Context, rng domain.DateRange) ([]domain.UserActivityRecord, error)
}

func (m *MockSnapshotProvider) UsageSnapshot(ctx context.Context) (domain.UsageSnapshot, error) {
	if m.UsageSnapshotFunc != nil {
		return m.UsageSnapshotFunc(ctx)
	}
	return domain.UsageSnapshot{}, nil
}

func (m *MockSnapshotProvider) Utilization(ctx context.Context, rng domain.DateRange) ([]domain.EntityUtilizationRecord, error) {
	if m.UtilizationFunc != nil {
		return m.UtilizationFunc(ctx, rng)
	}
	return []domain.EntityUtilizationRecord{}, nil
}

func (m *MockSnapshotProvider) UserActivity(ctx context.Context, rng domain.DateRange) ([]domain.UserActivityRecord, error) {
	if m.UserActivityFunc != nil {
		return m.UserActivityFunc(ctx, rng)
	}
	return []domain.UserActivityRecord{}, nil
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, email, password string) (string, string, error)
	RegisterFunc      func(ctx context.Context, user *domain.User) error
	RefreshTokenFunc  func(ctx context.Context, token string) (string, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", "", nil
}

func (m *MockAuthService) Register(ctx context.Context, user *domain.User) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, user)
	}
	return nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, token string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, token)
	}
	return "", nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, nil
}
