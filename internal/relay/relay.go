// Package relay renders inquiries into WhatsApp text and forwards them to the
// CallMeBot API. A Relay is stateless and safe to share across requests.
package relay

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"paramanu/internal/metrics"
	apperrors "paramanu/pkg/errors"
)

// QueuedMarker is how CallMeBot signals that a message was accepted for
// later delivery, sometimes alongside a non-2xx status.
const QueuedMarker = "Message queued"

// Sender delivers rendered text to the messaging provider.
type Sender interface {
	Send(ctx context.Context, text string) (*Response, error)
}

// Result is the uniform outcome of a relay call.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Relay turns payloads into provider calls.
type Relay struct {
	sender Sender
	logger *zap.Logger
}

// New creates a relay.
func New(sender Sender, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{sender: sender, logger: logger}
}

// Forward validates, renders and sends one payload. Every failure is
// reported in the result; none is returned as an error.
func (r *Relay) Forward(ctx context.Context, p Payload) Result {
	if err := p.Validate(); err != nil {
		r.logger.Warn("Rejected relay payload", zap.Error(err))
		metrics.RecordRelayRequest("invalid")
		return failure(apperrors.MessageOf(err))
	}

	text := p.Render()
	r.logger.Info("Sending WhatsApp notification",
		zap.String("type", p.Type),
		zap.String("email", p.Email))

	resp, err := r.sender.Send(ctx, text)
	if err != nil {
		if apperrors.IsConfiguration(err) {
			r.logger.Error("WhatsApp relay is not configured, no request was made", zap.Error(err))
			metrics.RecordRelayRequest("misconfigured")
			return failure(apperrors.MessageOf(err))
		}
		r.logger.Error("WhatsApp request failed", zap.Error(err))
		metrics.RecordRelayRequest("transport_error")
		return failure(err.Error())
	}

	r.logger.Debug("WhatsApp API response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", resp.Body))

	if Accepted(resp) {
		metrics.RecordRelayRequest("sent")
		return Result{Success: true, Message: "WhatsApp notification sent successfully"}
	}

	r.logger.Error("WhatsApp API rejected the message",
		zap.Int("status", resp.StatusCode),
		zap.String("body", resp.Body))
	metrics.RecordRelayRequest("upstream_error")
	return failure(resp.Body)
}

// Accepted reports whether a provider response counts as delivered.
func Accepted(resp *Response) bool {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true
	}
	return strings.Contains(resp.Body, QueuedMarker)
}

func failure(detail string) Result {
	return Result{Success: false, Error: detail}
}
