// Package ocpi implements the roaming credentials handshake with partner
// platforms. Outbound calls go through a circuit-breaker protected HTTP
// client so a dead partner endpoint cannot stall the console.
package ocpi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/observability/telemetry"
	"github.com/voltgrid/opsconsole/internal/ports"
)

// Doer abstracts the protected HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config identifies this platform toward remote parties.
type Config struct {
	CountryCode string
	PartyID     string
	BaseURL     string // externally reachable base URL advertised in credentials
}

type Service struct {
	parties ports.PartyRepository
	client  Doer
	cfg     Config
	log     *zap.Logger
}

func NewService(parties ports.PartyRepository, client Doer, cfg Config, log *zap.Logger) *Service {
	return &Service{
		parties: parties,
		client:  client,
		cfg:     cfg,
		log:     log,
	}
}

// credentials is the wire format exchanged during registration.
type credentials struct {
	Token string            `json:"token"`
	URL   string            `json:"url"`
	Roles []credentialsRole `json:"roles"`
}

type credentialsRole struct {
	Role        string `json:"role"`
	PartyID     string `json:"party_id"`
	CountryCode string `json:"country_code"`
}

// Register runs the credentials exchange with the stored party. A fresh
// inbound token is minted on every registration; the token the remote side
// returns replaces our stored outbound token.
func (s *Service) Register(ctx context.Context, partyID string) (*domain.Party, error) {
	party, err := s.parties.FindByID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	tokenIn := uuid.NewString()
	payload := credentials{
		Token: tokenIn,
		URL:   s.cfg.BaseURL,
		Roles: []credentialsRole{{
			Role:        string(domain.PartyRoleCPO),
			PartyID:     s.cfg.PartyID,
			CountryCode: s.cfg.CountryCode,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, party.EndpointURL+"/credentials", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build credentials request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+party.TokenOut)

	resp, err := s.client.Do(req)
	if err != nil {
		telemetry.RoamingHandshakesTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("credentials exchange with %s: %w", party.PartyID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		telemetry.RoamingHandshakesTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("credentials exchange with %s: unexpected status %d", party.PartyID, resp.StatusCode)
	}

	var remote credentials
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("decode credentials response: %w", err)
	}
	if remote.Token == "" {
		return nil, fmt.Errorf("credentials exchange with %s: empty token in response", party.PartyID)
	}

	now := time.Now().UTC()
	party.TokenIn = tokenIn
	party.TokenOut = remote.Token
	party.Status = domain.PartyStatusRegistered
	party.LastRegistered = &now

	if err := s.parties.Save(ctx, party); err != nil {
		return nil, err
	}

	telemetry.RoamingHandshakesTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info("Party registered",
		zap.String("party_id", party.PartyID),
		zap.String("country_code", party.CountryCode),
	)
	return party, nil
}

// Unregister revokes the registration on the remote side and suspends the
// party locally. A remote failure still suspends locally; the operator can
// re-register later.
func (s *Service) Unregister(ctx context.Context, partyID string) error {
	party, err := s.parties.FindByID(ctx, partyID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, party.EndpointURL+"/credentials", nil)
	if err != nil {
		return fmt.Errorf("build revocation request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+party.TokenOut)

	resp, err := s.client.Do(req)
	if err != nil {
		telemetry.RoamingHandshakesTotal.WithLabelValues("unregister", "error").Inc()
		s.log.Warn("Remote credentials revocation failed, suspending locally",
			zap.String("party_id", party.PartyID),
			zap.Error(err),
		)
	} else {
		resp.Body.Close()
		telemetry.RoamingHandshakesTotal.WithLabelValues("unregister", "ok").Inc()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			s.log.Warn("Remote credentials revocation returned unexpected status",
				zap.String("party_id", party.PartyID),
				zap.Int("status", resp.StatusCode),
			)
		}
	}

	if err := s.parties.UpdateStatus(ctx, party.ID, domain.PartyStatusSuspended); err != nil {
		return err
	}

	s.log.Info("Party suspended", zap.String("party_id", party.PartyID))
	return nil
}
