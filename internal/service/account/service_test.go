package account

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/mocks"
)

func TestUpdateRole_Valid(t *testing.T) {
	// Arrange
	var saved *domain.User
	repo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.UserRoleViewer}, nil
		},
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			saved = user
			return nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	// Act
	err := svc.UpdateRole(context.Background(), "u-1", domain.UserRoleAdmin)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil || saved.Role != domain.UserRoleAdmin {
		t.Errorf("expected role to be persisted, got %+v", saved)
	}
}

func TestUpdateRole_UnknownRole(t *testing.T) {
	svc := NewService(&mocks.MockUserRepository{}, zap.NewNop())

	err := svc.UpdateRole(context.Background(), "u-1", domain.UserRole("superuser"))
	if !errors.Is(err, domain.ErrUnknownEnum) {
		t.Fatalf("expected ErrUnknownEnum, got %v", err)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewService(&mocks.MockUserRepository{}, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), "u-1", "Suspended")
	if !errors.Is(err, domain.ErrUnknownEnum) {
		t.Fatalf("expected ErrUnknownEnum, got %v", err)
	}
}

func TestUpdateStatus_UnknownUser(t *testing.T) {
	repo := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := NewService(repo, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), "missing", "Blocked")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_ClampsPaging(t *testing.T) {
	// Arrange
	var gotLimit, gotOffset int
	repo := &mocks.MockUserRepository{
		FindAllFunc: func(ctx context.Context, limit, offset int) ([]domain.User, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	svc := NewService(repo, zap.NewNop())

	// Act
	if _, err := svc.ListUsers(context.Background(), 0, -1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if gotLimit != defaultPageLimit || gotOffset != 0 {
		t.Errorf("expected defaults, got limit=%d offset=%d", gotLimit, gotOffset)
	}
}
