// Package health exposes liveness and readiness probes over the console's
// backing services.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the outcome of a single dependency probe.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker probes one dependency.
type Checker func(ctx context.Context) CheckResult

type Service struct {
	startTime time.Time
	version   string
	log       *zap.Logger

	mu       sync.RWMutex
	checkers map[string]Checker
}

func NewService(version string, log *zap.Logger) *Service {
	return &Service{
		startTime: time.Now(),
		version:   version,
		checkers:  make(map[string]Checker),
		log:       log,
	}
}

func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// RegisterDatabase probes the SQL connection pool.
func (s *Service) RegisterDatabase(db *sql.DB) {
	s.RegisterChecker("database", func(ctx context.Context) CheckResult {
		return probe(ctx, "database", func(ctx context.Context) error {
			return db.PingContext(ctx)
		})
	})
}

// RegisterRedis probes the Redis client.
func (s *Service) RegisterRedis(client *redis.Client) {
	s.RegisterChecker("redis", func(ctx context.Context) CheckResult {
		return probe(ctx, "redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	})
}

// RegisterQueue probes the message queue through the given ping function,
// so the check works for both the NATS and RabbitMQ drivers.
func (s *Service) RegisterQueue(name string, ping func(ctx context.Context) error) {
	s.RegisterChecker(name, func(ctx context.Context) CheckResult {
		return probe(ctx, name, ping)
	})
}

func probe(ctx context.Context, name string, ping func(ctx context.Context) error) CheckResult {
	start := time.Now()
	result := CheckResult{Name: name, Timestamp: start}

	err := ping(ctx)
	result.Duration = time.Since(start)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = fmt.Sprintf("ping failed: %v", err)
	} else {
		result.Status = StatusHealthy
		result.Message = "connection ok"
	}
	return result
}

// Health is the liveness probe; it never touches dependencies.
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs all registered checks concurrently.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for name, checker := range s.checkers {
		checkers[name] = checker
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	overall := StatusHealthy
	ready := true
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overall = StatusUnhealthy
			ready = false
			s.log.Warn("Health check failed",
				zap.String("check", result.Name),
				zap.String("message", result.Message),
			)
		}
	}

	return &ReadyResponse{
		Ready:     ready,
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}
