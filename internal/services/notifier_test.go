package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"paramanu/internal/domain"
)

type fakeChannel struct {
	name  string
	err   error
	calls atomic.Int32
}

func (c *fakeChannel) Name() string { return c.name }

func (c *fakeChannel) Notify(ctx context.Context, inq *domain.Inquiry) error {
	c.calls.Add(1)
	return c.err
}

func TestNotifierAttemptsEveryChannel(t *testing.T) {
	email := &fakeChannel{name: "email", err: errors.New("smtp down")}
	whatsapp := &fakeChannel{name: "whatsapp"}
	n := NewNotifier(zap.NewNop(), email, whatsapp)

	err := n.Notify(context.Background(), &domain.Inquiry{Kind: domain.KindGeneralContact})
	assert.ErrorContains(t, err, "email: smtp down")
	assert.Equal(t, int32(1), email.calls.Load())
	assert.Equal(t, int32(1), whatsapp.calls.Load())
}

func TestNotifierSucceedsWhenAllChannelsDo(t *testing.T) {
	a := &fakeChannel{name: "a"}
	b := &fakeChannel{name: "b"}

	assert.NoError(t, NewNotifier(zap.NewNop(), a, b).Notify(context.Background(), &domain.Inquiry{}))
	assert.NoError(t, NewNotifier(zap.NewNop()).Notify(context.Background(), &domain.Inquiry{}))
}
