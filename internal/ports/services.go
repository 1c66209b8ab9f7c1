package ports

import (
	"context"

	"github.com/voltgrid/opsconsole/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// SnapshotProvider fetches the immutable dashboard inputs. Implementations
// may serve from cache; FetchedAt on the usage snapshot reflects the origin
// read, not the cache hit.
type SnapshotProvider interface {
	UsageSnapshot(ctx context.Context) (domain.UsageSnapshot, error)
	Utilization(ctx context.Context, rng domain.DateRange) ([]domain.EntityUtilizationRecord, error)
	UserActivity(ctx context.Context, rng domain.DateRange) ([]domain.UserActivityRecord, error)
}

// PartyRegistrar drives the roaming credentials handshake with a remote
// party platform.
type PartyRegistrar interface {
	Register(ctx context.Context, partyID string) (*domain.Party, error)
	Unregister(ctx context.Context, partyID string) error
}
