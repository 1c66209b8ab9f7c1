// Package account manages operator console accounts: listing, role and
// status changes. Account creation goes through the auth service so password
// hashing stays in one place.
package account

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

var validStatuses = map[string]bool{
	"Active":   true,
	"Inactive": true,
	"Blocked":  true,
}

type Service struct {
	users ports.UserRepository
	log   *zap.Logger
}

func NewService(users ports.UserRepository, log *zap.Logger) *Service {
	return &Service{
		users: users,
		log:   log,
	}
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.FindAll(ctx, limit, offset)
}

func (s *Service) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	switch role {
	case domain.UserRoleAdmin, domain.UserRoleOperator, domain.UserRoleViewer:
	default:
		return fmt.Errorf("%w: user role %q", domain.ErrUnknownEnum, role)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Role = role
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("User role updated",
		zap.String("user_id", id),
		zap.String("role", string(role)),
	)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: user status %q", domain.ErrUnknownEnum, status)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Status = status
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("User status updated",
		zap.String("user_id", id),
		zap.String("status", status),
	)
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
