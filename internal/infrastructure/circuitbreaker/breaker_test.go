package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func failing(context.Context) error { return errors.New("boom") }

func succeeding(context.Context) error { return nil }

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	// Arrange
	b := New(Settings{Name: "test", FailureThreshold: 3}, zap.NewNop())
	ctx := context.Background()

	// Act
	for i := 0; i < 3; i++ {
		b.ExecuteCtx(ctx, failing)
	}

	// Assert
	if b.State() != StateOpen {
		t.Errorf("Expected open state, got %s", b.State())
	}
	err := b.ExecuteCtx(ctx, succeeding)
	if !IsOpen(err) {
		t.Errorf("Expected ErrOpen while open, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	// Arrange
	b := New(Settings{Name: "test", FailureThreshold: 3}, zap.NewNop())
	ctx := context.Background()

	// Act: two failures, a success, then two more failures
	b.ExecuteCtx(ctx, failing)
	b.ExecuteCtx(ctx, failing)
	b.ExecuteCtx(ctx, succeeding)
	b.ExecuteCtx(ctx, failing)
	b.ExecuteCtx(ctx, failing)

	// Assert: the streak never reached the threshold
	if b.State() != StateClosed {
		t.Errorf("Expected closed state, got %s", b.State())
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	// Arrange
	b := New(Settings{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		MaxRequests:      2,
		Timeout:          20 * time.Millisecond,
	}, zap.NewNop())
	ctx := context.Background()

	b.ExecuteCtx(ctx, failing)
	if b.State() != StateOpen {
		t.Fatalf("Expected open state, got %s", b.State())
	}

	// Act: wait out the cool-off, then probe successfully twice
	time.Sleep(30 * time.Millisecond)
	if b.State() != StateHalfOpen {
		t.Fatalf("Expected half-open state after timeout, got %s", b.State())
	}
	b.ExecuteCtx(ctx, succeeding)
	b.ExecuteCtx(ctx, succeeding)

	// Assert
	if b.State() != StateClosed {
		t.Errorf("Expected closed state after recovery, got %s", b.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	// Arrange
	b := New(Settings{
		Name:             "test",
		FailureThreshold: 1,
		Timeout:          20 * time.Millisecond,
	}, zap.NewNop())
	ctx := context.Background()

	b.ExecuteCtx(ctx, failing)
	time.Sleep(30 * time.Millisecond)
	if b.State() != StateHalfOpen {
		t.Fatalf("Expected half-open state, got %s", b.State())
	}

	// Act
	b.ExecuteCtx(ctx, failing)

	// Assert
	if b.State() != StateOpen {
		t.Errorf("Expected open state after failed probe, got %s", b.State())
	}
}

func TestBreaker_HalfOpenProbeLimit(t *testing.T) {
	// Arrange
	b := New(Settings{
		Name:             "test",
		FailureThreshold: 1,
		MaxRequests:      1,
		Timeout:          10 * time.Millisecond,
	}, zap.NewNop())
	ctx := context.Background()

	b.ExecuteCtx(ctx, failing)
	time.Sleep(20 * time.Millisecond)

	// Act: hold one probe in flight and attempt a second
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		b.ExecuteCtx(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
		close(done)
	}()
	<-started

	err := b.ExecuteCtx(ctx, succeeding)

	// Assert
	if !errors.Is(err, ErrProbeLimit) {
		t.Errorf("Expected ErrProbeLimit, got %v", err)
	}

	close(release)
	<-done
}
