package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"paramanu/internal/config"
	"paramanu/internal/domain"
	"paramanu/internal/relay"
)

// RelayClient forwards inquiries to the notification relay.
type RelayClient struct {
	url    string
	auth   *relay.Authenticator
	client *http.Client
	logger *zap.Logger
}

// NewRelayClient creates a relay client. Calls are signed when a shared
// secret is configured.
func NewRelayClient(cfg *config.RelayConfig, logger *zap.Logger) *RelayClient {
	c := &RelayClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("relay-client"),
	}
	if cfg.SharedSecret != "" {
		c.auth = relay.NewAuthenticator(cfg.SharedSecret)
	}
	return c
}

// Name identifies the channel in logs and metrics.
func (c *RelayClient) Name() string {
	return "whatsapp"
}

// Notify posts the inquiry payload to the relay.
func (c *RelayClient) Notify(ctx context.Context, inq *domain.Inquiry) error {
	_, err := c.Send(ctx, relay.PayloadFrom(inq))
	return err
}

// Send posts a raw payload and returns the relay's result. A result with
// Success false is returned together with an error.
func (c *RelayClient) Send(ctx context.Context, p relay.Payload) (*relay.Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.auth != nil {
		token, err := c.auth.Sign()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach relay: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	var res relay.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("relay returned status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if resp.StatusCode != http.StatusOK || !res.Success {
		return &res, fmt.Errorf("relay returned status %d: %s", resp.StatusCode, res.Error)
	}

	c.logger.Debug("Relay accepted notification", zap.String("type", p.Type))
	return &res, nil
}
