// Package snapshot assembles the immutable analytics inputs the dashboard is
// derived from. Reads go through a cache-aside layer so repeated dashboard
// loads do not re-run the database aggregations.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/adapter/queue"
	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/observability/telemetry"
	"github.com/voltgrid/opsconsole/internal/ports"
)

const (
	usageCacheKey = "analytics:usage"

	// SubjectSnapshotRefreshed is published after a forced rebuild so open
	// dashboard sessions can refetch.
	SubjectSnapshotRefreshed = "analytics.snapshot.refreshed"
)

const (
	defaultMonths = 12
	defaultYears  = 5

	// defaultWindow bounds utilization queries when no custom range is set.
	defaultWindow = 30 * 24 * time.Hour
)

type Service struct {
	analytics ports.AnalyticsRepository
	cache     ports.Cache
	queue     queue.MessageQueue
	ttl       time.Duration
	log       *zap.Logger
}

// NewService creates a snapshot service. The cache and queue are optional;
// a nil cache disables the cache-aside path and a nil queue disables refresh
// notifications.
func NewService(analytics ports.AnalyticsRepository, cache ports.Cache, q queue.MessageQueue, ttl time.Duration, log *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		analytics: analytics,
		cache:     cache,
		queue:     q,
		ttl:       ttl,
		log:       log,
	}
}

// UsageSnapshot returns the pre-aggregated monthly and yearly usage buckets,
// served from cache when fresh.
func (s *Service) UsageSnapshot(ctx context.Context) (domain.UsageSnapshot, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, usageCacheKey)
		if err != nil {
			s.log.Warn("Usage snapshot cache read failed", zap.Error(err))
		} else if data != nil {
			var snap domain.UsageSnapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				telemetry.SnapshotCacheHits.WithLabelValues("hit").Inc()
				return snap, nil
			}
			s.log.Warn("Discarding undecodable cached usage snapshot", zap.Error(err))
		}
	}
	telemetry.SnapshotCacheHits.WithLabelValues("miss").Inc()

	snap, err := s.buildUsageSnapshot(ctx)
	if err != nil {
		return domain.UsageSnapshot{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, usageCacheKey, data, s.ttl); err != nil {
				s.log.Warn("Usage snapshot cache write failed", zap.Error(err))
			}
		}
	}
	return snap, nil
}

// Utilization returns the per-station read model for the given range, or for
// the trailing default window when no range is set.
func (s *Service) Utilization(ctx context.Context, rng domain.DateRange) ([]domain.EntityUtilizationRecord, error) {
	from, to := s.window(rng)
	return s.analytics.ChargePointUtilization(ctx, from, to)
}

// UserActivity returns the per-user read model for the given range, or for
// the trailing default window when no range is set.
func (s *Service) UserActivity(ctx context.Context, rng domain.DateRange) ([]domain.UserActivityRecord, error) {
	from, to := s.window(rng)
	return s.analytics.UserActivity(ctx, from, to)
}

// Refresh drops the cached usage snapshot, rebuilds it from the database and
// notifies subscribers.
func (s *Service) Refresh(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, usageCacheKey); err != nil {
			s.log.Warn("Usage snapshot cache invalidation failed", zap.Error(err))
		}
	}

	snap, err := s.buildUsageSnapshot(ctx)
	if err != nil {
		return err
	}

	if s.cache != nil {
		if data, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, usageCacheKey, data, s.ttl); err != nil {
				s.log.Warn("Usage snapshot cache write failed", zap.Error(err))
			}
		}
	}

	if s.queue != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"fetched_at": snap.FetchedAt,
		})
		if err := s.queue.Publish(SubjectSnapshotRefreshed, payload); err != nil {
			s.log.Error("Failed to publish snapshot refresh event", zap.Error(err))
		}
	}

	s.log.Info("Usage snapshot refreshed",
		zap.Int("monthly_buckets", len(snap.Monthly)),
		zap.Int("yearly_buckets", len(snap.Yearly)),
	)
	return nil
}

func (s *Service) buildUsageSnapshot(ctx context.Context) (domain.UsageSnapshot, error) {
	start := time.Now()
	defer func() {
		telemetry.SnapshotFetchLatency.Observe(time.Since(start).Seconds())
	}()

	monthly, err := s.analytics.MonthlyUsage(ctx, defaultMonths)
	if err != nil {
		return domain.UsageSnapshot{}, err
	}
	yearly, err := s.analytics.YearlyUsage(ctx, defaultYears)
	if err != nil {
		return domain.UsageSnapshot{}, err
	}
	return domain.UsageSnapshot{
		Monthly:   monthly,
		Yearly:    yearly,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) window(rng domain.DateRange) (time.Time, time.Time) {
	if rng.From != nil && rng.To != nil && rng.Validate() == nil {
		return *rng.From, *rng.To
	}
	to := time.Now().UTC()
	return to.Add(-defaultWindow), to
}
