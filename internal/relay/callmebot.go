package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paramanu/internal/config"
	apperrors "paramanu/pkg/errors"
)

// DefaultBaseURL is the CallMeBot WhatsApp endpoint.
const DefaultBaseURL = "https://api.callmebot.com/whatsapp.php"

// maxBodyBytes caps how much of the provider's response is read.
const maxBodyBytes = 64 << 10

// Response is the raw answer of the messaging provider.
type Response struct {
	StatusCode int
	Body       string
}

// CallMeBotClient sends WhatsApp messages through the CallMeBot GET API.
type CallMeBotClient struct {
	apiKey    string
	recipient string
	baseURL   string
	client    *http.Client
}

// NewCallMeBotClient creates a client from the WhatsApp config section.
func NewCallMeBotClient(cfg config.WhatsAppConfig) *CallMeBotClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CallMeBotClient{
		apiKey:    cfg.APIKey,
		recipient: cfg.Recipient,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is set.
func (c *CallMeBotClient) Configured() bool {
	return c.apiKey != ""
}

// Send issues one GET carrying the message text. A missing API key yields a
// CONFIGURATION_ERROR before any request is made. Non-2xx statuses are not
// errors here; the caller decides how to read them.
func (c *CallMeBotClient) Send(ctx context.Context, text string) (*Response, error) {
	if !c.Configured() {
		return nil, apperrors.New(apperrors.ErrCodeConfiguration,
			"WhatsApp API key not configured. Please set up CallMeBot API key.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.messageURL(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send WhatsApp request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read WhatsApp response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// messageURL builds {base}?phone=..&text=..&apikey=.. with the text
// percent-encoded the way browsers' encodeURIComponent does for spaces.
func (c *CallMeBotClient) messageURL(text string) string {
	return fmt.Sprintf("%s?phone=%s&text=%s&apikey=%s",
		c.baseURL,
		url.QueryEscape(c.recipient),
		encodeComponent(text),
		url.QueryEscape(c.apiKey))
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
