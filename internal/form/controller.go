package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"paramanu/internal/domain"
	"paramanu/internal/metrics"
	apperrors "paramanu/pkg/errors"
)

const defaultTimeout = 8 * time.Second

// Store persists a submitted inquiry into a named collection.
type Store interface {
	Insert(ctx context.Context, collection string, inq *domain.Inquiry) error
}

// Notifier alerts staff about a submitted inquiry.
type Notifier interface {
	Notify(ctx context.Context, inq *domain.Inquiry) error
}

// Result is what the user sees after a successful submission.
type Result struct {
	ID      uint        `json:"id"`
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`
}

// Snapshot is a read-only view of a controller's state.
type Snapshot struct {
	Kind         domain.Kind    `json:"kind"`
	Step         string         `json:"step"`
	StepNumber   int            `json:"stepNumber"`
	TotalSteps   int            `json:"totalSteps"`
	CanAdvance   bool           `json:"canAdvance"`
	Missing      []domain.Field `json:"missing,omitempty"`
	Required     []domain.Field `json:"required"`
	Submitting   bool           `json:"submitting"`
	Inquiry      domain.Inquiry `json:"inquiry"`
	Confirmation string         `json:"confirmation,omitempty"`
}

// Controller walks one form through its steps and submits it. It is safe for
// concurrent use; outbound calls run without holding the lock, and a second
// Submit while one is in flight is rejected.
type Controller struct {
	kind      domain.Kind
	flow      []Step
	store     Store
	notifier  Notifier
	logger    *zap.Logger
	timeout   time.Duration
	autoReset bool

	mu         sync.Mutex
	step       int // index into flow; len(flow) once submitted
	inquiry    domain.Inquiry
	submitting bool
	result     *Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithTimeout bounds each of the two outbound calls made by Submit.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAutoReset makes the controller return to its first step right after a
// successful submission instead of holding the confirmation view.
func WithAutoReset() Option {
	return func(c *Controller) { c.autoReset = true }
}

// New creates a controller for the given kind.
func New(kind domain.Kind, store Store, notifier Notifier, opts ...Option) (*Controller, error) {
	flow := FlowFor(kind)
	if flow == nil {
		return nil, apperrors.New(apperrors.ErrCodeValidation, fmt.Sprintf("unknown inquiry kind %q", kind)).
			WithFields(string(domain.FieldKind))
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	c := &Controller{
		kind:     kind,
		flow:     flow,
		store:    store,
		notifier: notifier,
		logger:   zap.NewNop(),
		timeout:  defaultTimeout,
		inquiry:  domain.Inquiry{Kind: kind},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("kind", string(kind)))
	return c, nil
}

// Kind returns the kind of inquiry this controller collects.
func (c *Controller) Kind() domain.Kind {
	return c.kind
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Kind:       c.kind,
		TotalSteps: len(c.flow),
		Required:   domain.RequiredFields(c.kind),
		Submitting: c.submitting,
		Inquiry:    c.inquiry.Clone(),
	}
	if c.submitted() {
		s.Step = StepSubmitted
		s.StepNumber = len(c.flow) + 1
		if c.result != nil {
			s.Confirmation = c.result.Message
		}
		return s
	}

	s.Step = c.flow[c.step].Name
	s.StepNumber = c.step + 1
	s.Missing = domain.Missing(&c.inquiry, c.flow[c.step].Gate)
	s.CanAdvance = len(s.Missing) == 0
	return s
}

// Update applies user edits. Edits are refused while a submission is in
// flight or the confirmation view is showing.
func (c *Controller) Update(p Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEditable(); err != nil {
		return err
	}
	p.Apply(&c.inquiry)
	return nil
}

// Next moves to the following step if the current step's gate is satisfied.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEditable(); err != nil {
		return err
	}
	if c.step == len(c.flow)-1 {
		return apperrors.New(apperrors.ErrCodeInvalidState, "already on the final step")
	}

	if missing := domain.Missing(&c.inquiry, c.flow[c.step].Gate); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return apperrors.New(apperrors.ErrCodeStepIncomplete, "please complete the required fields").WithFields(names...)
	}

	c.step++
	c.logger.Debug("Form advanced", zap.String("step", c.flow[c.step].Name))
	return nil
}

// Back returns to the previous step. Entered data is kept.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEditable(); err != nil {
		return err
	}
	if c.step == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidState, "already on the first step")
	}
	c.step--
	return nil
}

// Submit validates the whole inquiry, stores it and notifies staff. Both
// calls are attempted; only a storage failure is reported to the caller.
// On failure the form stays on its final step with its data intact.
func (c *Controller) Submit(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if err := c.checkEditable(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.step != len(c.flow)-1 {
		c.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrCodeInvalidState, "submit is only available on the final step")
	}

	inq := c.inquiry.Clone()
	inq.Kind = c.kind
	inq.Normalize()
	if err := domain.Validate(&inq); err != nil {
		c.mu.Unlock()
		c.logger.Info("Submit rejected", zap.Error(err))
		metrics.RecordInquirySubmission(string(c.kind), "rejected")
		return nil, err
	}
	c.submitting = true
	c.mu.Unlock()

	storeErr := c.persist(ctx, &inq)
	c.notify(ctx, &inq)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if storeErr != nil {
		metrics.RecordInquirySubmission(string(c.kind), "failed")
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, "we could not save your request, please try again", storeErr)
	}

	metrics.RecordInquirySubmission(string(c.kind), "accepted")
	res := &Result{ID: inq.ID, Kind: c.kind, Message: Confirmation(c.kind)}
	if c.autoReset {
		c.reset()
	} else {
		c.step = len(c.flow)
		c.result = res
	}
	return res, nil
}

// Complete walks through every remaining step and submits. It is the
// one-shot path used when a client posts a fully filled form.
func (c *Controller) Complete(ctx context.Context) (*Result, error) {
	for {
		c.mu.Lock()
		last := c.step >= len(c.flow)-1
		c.mu.Unlock()
		if last {
			break
		}
		if err := c.Next(); err != nil {
			return nil, err
		}
	}
	return c.Submit(ctx)
}

// Dismiss closes the confirmation view, clearing the form for repeat use.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.submitted() {
		return apperrors.New(apperrors.ErrCodeInvalidState, "nothing to dismiss")
	}
	c.reset()
	return nil
}

func (c *Controller) persist(ctx context.Context, inq *domain.Inquiry) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	collection := inq.Collection()
	if err := c.store.Insert(ctx, collection, inq); err != nil {
		c.logger.Error("Failed to store inquiry",
			zap.String("collection", collection),
			zap.String("email", inq.Email),
			zap.Error(err))
		return err
	}
	c.logger.Info("Inquiry stored",
		zap.String("collection", collection),
		zap.Uint("id", inq.ID),
		zap.String("email", inq.Email))
	return nil
}

// notify is best effort: its outcome never reaches the user. It runs
// detached from ctx cancellation so a dropped client connection does not
// cut the alert short.
func (c *Controller) notify(ctx context.Context, inq *domain.Inquiry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	if err := c.notifier.Notify(ctx, inq); err != nil {
		c.logger.Warn("Failed to notify staff", zap.Uint("id", inq.ID), zap.Error(err))
		return
	}
	c.logger.Info("Staff notified", zap.Uint("id", inq.ID))
}

func (c *Controller) checkEditable() error {
	if c.submitting {
		return apperrors.New(apperrors.ErrCodeSubmissionInFlight, "a submission is already in progress")
	}
	if c.submitted() {
		return apperrors.New(apperrors.ErrCodeInvalidState, "form already submitted")
	}
	return nil
}

func (c *Controller) submitted() bool {
	return c.step >= len(c.flow)
}

func (c *Controller) reset() {
	c.step = 0
	c.result = nil
	c.inquiry.Reset()
}
