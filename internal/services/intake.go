package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"

	"paramanu/internal/config"
	"paramanu/internal/domain"
	"paramanu/internal/form"
	"paramanu/internal/metrics"
	"paramanu/internal/popup"
	"paramanu/internal/session"
	apperrors "paramanu/pkg/errors"
)

const (
	// SessionCookie identifies a visitor across popup requests.
	SessionCookie = "paramanu_sid"
	// ProgramPagePath is where the program popup points.
	ProgramPagePath = "/python-full-stack"

	maxBodyBytes = 1 << 20
)

// CreateFormRequest starts a form session.
type CreateFormRequest struct {
	Kind domain.Kind `json:"kind"`
}

// InquiryRequest is a fully filled form posted in one call.
type InquiryRequest struct {
	Kind domain.Kind `json:"kind"`
	form.Patch
}

// FormResponse describes a form session.
type FormResponse struct {
	ID string `json:"id"`
	form.Snapshot
}

// SubmitResponse is returned once an inquiry was accepted.
type SubmitResponse struct {
	Result *form.Result  `json:"result"`
	Form   *FormResponse `json:"form,omitempty"`
}

// IntakeService serves the lead forms.
type IntakeService struct {
	store         form.Store
	notifier      form.Notifier
	forms         *session.Store[*form.Controller]
	visitors      *session.Store[*session.Values]
	popup         *popup.Controller
	submitTimeout time.Duration
	secureCookies bool
	logger        *zap.Logger
	mux           goahttp.Muxer
}

// NewIntakeService creates the intake service.
func NewIntakeService(cfg *config.Config, store form.Store, notifier form.Notifier, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		store:         store,
		notifier:      notifier,
		forms:         session.NewStore[*form.Controller](cfg.Forms.SessionTTL),
		visitors:      session.NewStore[*session.Values](cfg.Forms.SessionTTL),
		popup:         popup.NewController(cfg.Popup.Delay, ProgramPagePath),
		submitTimeout: cfg.Forms.SubmitTimeout,
		secureCookies: !cfg.App.Debug,
		logger:        logger.Named("intake"),
	}
}

// Mount registers the intake routes.
func (s *IntakeService) Mount(mux goahttp.Muxer) {
	s.mux = mux
	mux.Handle(http.MethodPost, "/api/v1/inquiries", s.SubmitInquiry)

	mux.Handle(http.MethodPost, "/api/v1/forms", s.CreateForm)
	mux.Handle(http.MethodGet, "/api/v1/forms/{id}", s.withForm(s.showForm))
	mux.Handle(http.MethodPatch, "/api/v1/forms/{id}", s.withForm(s.updateForm))
	mux.Handle(http.MethodDelete, "/api/v1/forms/{id}", s.withForm(s.closeForm))
	mux.Handle(http.MethodPost, "/api/v1/forms/{id}/next", s.withForm(s.step((*form.Controller).Next)))
	mux.Handle(http.MethodPost, "/api/v1/forms/{id}/back", s.withForm(s.step((*form.Controller).Back)))
	mux.Handle(http.MethodPost, "/api/v1/forms/{id}/dismiss", s.withForm(s.step((*form.Controller).Dismiss)))
	mux.Handle(http.MethodPost, "/api/v1/forms/{id}/submit", s.withForm(s.submitForm))

	mux.Handle(http.MethodGet, "/api/v1/popups/program", s.ShowPopup)
	mux.Handle(http.MethodPost, "/api/v1/popups/program/dismiss", s.DismissPopup)
}

// Run sweeps expired sessions until ctx is done.
func (s *IntakeService) Run(ctx context.Context, interval time.Duration) {
	go s.visitors.RunJanitor(ctx, interval, nil)
	s.forms.RunJanitor(ctx, interval, func(removed, remaining int) {
		metrics.SetFormSessions(remaining)
		if removed > 0 {
			s.logger.Debug("Expired form sessions removed", zap.Int("removed", removed), zap.Int("remaining", remaining))
		}
	})
}

func (s *IntakeService) newController(kind domain.Kind) (*form.Controller, error) {
	return form.New(kind, s.store, s.notifier,
		form.WithLogger(s.logger),
		form.WithTimeout(s.submitTimeout))
}

// SubmitInquiry accepts a complete inquiry in a single request.
func (s *IntakeService) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	c, err := s.newController(req.Kind)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := c.Update(req.Patch); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	res, err := c.Complete(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, r, s.logger, http.StatusCreated, SubmitResponse{Result: res})
}

// CreateForm starts a new form session.
func (s *IntakeService) CreateForm(w http.ResponseWriter, r *http.Request) {
	var req CreateFormRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	c, err := s.newController(req.Kind)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	id := session.NewID()
	s.forms.Put(id, c)
	metrics.SetFormSessions(s.forms.Len())
	s.logger.Debug("Form session created", zap.String("id", id), zap.String("kind", string(c.Kind())))

	writeJSON(w, r, s.logger, http.StatusCreated, FormResponse{ID: id, Snapshot: c.Snapshot()})
}

type formHandler func(w http.ResponseWriter, r *http.Request, id string, c *form.Controller)

func (s *IntakeService) withForm(h formHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := s.mux.Vars(r)["id"]
		c, ok := s.lookupForm(id)
		if !ok {
			writeError(w, r, s.logger, apperrors.New(apperrors.ErrCodeNotFound, "form session not found"))
			return
		}
		h(w, r, id, c)
	}
}

func (s *IntakeService) lookupForm(id string) (*form.Controller, bool) {
	if !session.ValidID(id) {
		return nil, false
	}
	return s.forms.Get(id)
}

func (s *IntakeService) showForm(w http.ResponseWriter, r *http.Request, id string, c *form.Controller) {
	writeJSON(w, r, s.logger, http.StatusOK, FormResponse{ID: id, Snapshot: c.Snapshot()})
}

func (s *IntakeService) updateForm(w http.ResponseWriter, r *http.Request, id string, c *form.Controller) {
	var p form.Patch
	if err := decode(w, r, &p); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := c.Update(p); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, r, s.logger, http.StatusOK, FormResponse{ID: id, Snapshot: c.Snapshot()})
}

// closeForm drops the session when the visitor closes the form. A submission
// already in flight still completes.
func (s *IntakeService) closeForm(w http.ResponseWriter, r *http.Request, id string, c *form.Controller) {
	s.forms.Delete(id)
	metrics.SetFormSessions(s.forms.Len())
	s.logger.Debug("Form session closed", zap.String("id", id), zap.String("kind", string(c.Kind())))
	w.WriteHeader(http.StatusNoContent)
}

func (s *IntakeService) step(op func(*form.Controller) error) formHandler {
	return func(w http.ResponseWriter, r *http.Request, id string, c *form.Controller) {
		if err := op(c); err != nil {
			writeError(w, r, s.logger, err)
			return
		}
		writeJSON(w, r, s.logger, http.StatusOK, FormResponse{ID: id, Snapshot: c.Snapshot()})
	}
}

func (s *IntakeService) submitForm(w http.ResponseWriter, r *http.Request, id string, c *form.Controller) {
	res, err := c.Submit(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, r, s.logger, http.StatusOK, SubmitResponse{
		Result: res,
		Form:   &FormResponse{ID: id, Snapshot: c.Snapshot()},
	})
}

// ShowPopup tells the visitor whether to open the program popup.
func (s *IntakeService) ShowPopup(w http.ResponseWriter, r *http.Request) {
	values := s.visitor(w, r)
	writeJSON(w, r, s.logger, http.StatusOK, s.popup.Decide(values))
}

// DismissPopup records that the visitor closed the popup.
func (s *IntakeService) DismissPopup(w http.ResponseWriter, r *http.Request) {
	values := s.visitor(w, r)
	s.popup.Dismiss(values)
	writeJSON(w, r, s.logger, http.StatusOK, s.popup.Decide(values))
}

// visitor returns the session values of the caller, issuing a cookie for
// new visitors.
func (s *IntakeService) visitor(w http.ResponseWriter, r *http.Request) *session.Values {
	if cookie, err := r.Cookie(SessionCookie); err == nil && session.ValidID(cookie.Value) {
		return s.visitors.GetOrCreate(cookie.Value, session.NewValues)
	}

	id := session.NewID()
	values := s.visitors.GetOrCreate(id, session.NewValues)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return values
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeBadRequest, fmt.Sprintf("invalid request body: %v", err), err)
	}
	return nil
}
