package circuitbreaker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient wraps an http.Client with breaker protection for the roaming
// credentials exchange. Responses with 5xx status count as failures.
type HTTPClient struct {
	client  *http.Client
	breaker *Breaker
	log     *zap.Logger
}

// HTTPClientSettings bundles the client timeout with the breaker tuning.
type HTTPClientSettings struct {
	Timeout time.Duration

	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	BreakerTimeout   time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// NewHTTPClientWithSettings builds a breaker-guarded HTTP client.
func NewHTTPClientWithSettings(settings HTTPClientSettings, log *zap.Logger) *HTTPClient {
	timeout := settings.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	breaker := New(Settings{
		Name:             settings.Name,
		MaxRequests:      settings.MaxRequests,
		Interval:         settings.Interval,
		Timeout:          settings.BreakerTimeout,
		FailureThreshold: settings.FailureThreshold,
		SuccessThreshold: settings.SuccessThreshold,
	}, log)

	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		log:     log,
	}
}

// Do executes the request under breaker protection. The request, including
// its body, is passed through untouched; a 5xx response is drained and
// reported as an error so the breaker counts it.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	err := c.breaker.ExecuteCtx(req.Context(), func(ctx context.Context) error {
		r, err := c.client.Do(req.WithContext(ctx))
		if err != nil {
			return err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			r.Body.Close()
			return fmt.Errorf("upstream status %d", r.StatusCode)
		}
		resp = r
		return nil
	})
	if err != nil {
		if IsOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
		}
		return nil, err
	}
	return resp, nil
}
