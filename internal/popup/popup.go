// Package popup decides whether a visitor should see the promotional program
// popup. Session state is passed in rather than read from a global, so the
// decision can be tested in isolation.
package popup

import (
	"time"
)

// DismissedKey is the session key recording a dismissal.
const DismissedKey = "program-popup-dismissed"

// SessionState is the per-visitor state the controller reads and writes.
type SessionState interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Decision tells the client whether and when to open the popup.
type Decision struct {
	Show  bool          `json:"show"`
	Delay time.Duration `json:"-"`
	// DelayMillis mirrors Delay for JSON clients.
	DelayMillis int64  `json:"delayMillis"`
	Target      string `json:"target,omitempty"`
}

// Controller holds the popup settings.
type Controller struct {
	delay  time.Duration
	target string
}

// NewController creates a controller that opens the popup after delay and
// points it at target.
func NewController(delay time.Duration, target string) *Controller {
	return &Controller{delay: delay, target: target}
}

// Decide returns whether the popup should be shown for this session.
func (c *Controller) Decide(state SessionState) Decision {
	if _, dismissed := state.Get(DismissedKey); dismissed {
		return Decision{Show: false}
	}
	return Decision{
		Show:        true,
		Delay:       c.delay,
		DelayMillis: c.delay.Milliseconds(),
		Target:      c.target,
	}
}

// Dismiss records that the visitor closed the popup (or followed it).
func (c *Controller) Dismiss(state SessionState) {
	state.Set(DismissedKey, "true")
}
