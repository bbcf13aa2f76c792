package popup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"paramanu/internal/session"
)

func TestDecide(t *testing.T) {
	c := NewController(2*time.Second, "/python-full-stack")
	state := session.NewValues()

	d := c.Decide(state)
	assert.True(t, d.Show)
	assert.Equal(t, int64(2000), d.DelayMillis)
	assert.Equal(t, "/python-full-stack", d.Target)

	c.Dismiss(state)
	assert.False(t, c.Decide(state).Show)
}

func TestDismissIsPerSession(t *testing.T) {
	c := NewController(time.Second, "/python-full-stack")
	first := session.NewValues()
	second := session.NewValues()

	c.Dismiss(first)

	assert.False(t, c.Decide(first).Show)
	assert.True(t, c.Decide(second).Show)
}
