package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paramanu/internal/domain"
	"paramanu/internal/metrics"
)

// Channel is one way of alerting staff.
type Channel interface {
	Name() string
	Notify(ctx context.Context, inq *domain.Inquiry) error
}

// Notifier fans an inquiry out to every channel concurrently. All channels
// are attempted; their failures are joined.
type Notifier struct {
	channels []Channel
	logger   *zap.Logger
}

// NewNotifier creates a notifier over the given channels.
func NewNotifier(logger *zap.Logger, channels ...Channel) *Notifier {
	return &Notifier{channels: channels, logger: logger.Named("notifier")}
}

// Notify implements form.Notifier.
func (n *Notifier) Notify(ctx context.Context, inq *domain.Inquiry) error {
	errs := make([]error, len(n.channels))

	var g errgroup.Group
	for i, ch := range n.channels {
		g.Go(func() error {
			err := ch.Notify(ctx, inq)
			metrics.RecordNotification(ch.Name(), err)
			if err != nil {
				n.logger.Warn("Notification channel failed",
					zap.String("channel", ch.Name()),
					zap.String("kind", string(inq.Kind)),
					zap.Error(err))
				errs[i] = fmt.Errorf("%s: %w", ch.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
