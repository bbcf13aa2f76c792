package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"

	"paramanu/internal/config"
	"paramanu/internal/domain"
	"paramanu/internal/popup"
)

type memoryStore struct {
	mu          sync.Mutex
	err         error
	inserted    []domain.Inquiry
	collections []string
}

func (s *memoryStore) Insert(ctx context.Context, collection string, inq *domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	inq.ID = uint(len(s.inserted) + 1)
	s.inserted = append(s.inserted, inq.Clone())
	s.collections = append(s.collections, collection)
	return nil
}

type countingNotifier struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (n *countingNotifier) Notify(ctx context.Context, inq *domain.Inquiry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func testConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Name: "test", Debug: true},
		Forms: config.FormsConfig{SubmitTimeout: time.Second, SessionTTL: time.Hour},
		Popup: config.PopupConfig{Delay: 2 * time.Second},
	}
}

type intakeFixture struct {
	handler  http.Handler
	store    *memoryStore
	notifier *countingNotifier
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	f := &intakeFixture{store: &memoryStore{}, notifier: &countingNotifier{}}
	mux := goahttp.NewMuxer()
	NewIntakeService(testConfig(), f.store, f.notifier, zap.NewNop()).Mount(mux)
	f.handler = mux
	return f
}

func (f *intakeFixture) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestScheduleConsultationEndToEnd(t *testing.T) {
	f := newIntakeFixture(t)
	f.notifier.err = errors.New("relay unreachable")

	rec := f.do(t, http.MethodPost, "/api/v1/forms", `{"kind":"schedule-consultation"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[FormResponse](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "contact-info", created.Step)
	base := "/api/v1/forms/" + created.ID

	rec = f.do(t, http.MethodPost, base+"/next", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeBody[ErrorBody](t, rec)
	assert.Equal(t, "STEP_INCOMPLETE", errBody.Code)
	assert.Equal(t, []string{"name", "email", "company"}, errBody.Fields)

	rec = f.do(t, http.MethodPatch, base, `{"name":"Jane Doe","email":"jane@co.com","company":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "service-and-time", decodeBody[FormResponse](t, rec).Step)

	rec = f.do(t, http.MethodPatch, base, `{"serviceInterest":["DevOps Services"],"preferredDate":"2025-03-01","preferredTime":"10:00 AM EST"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.do(t, http.MethodPost, base+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "message-and-summary", decodeBody[FormResponse](t, rec).Step)

	rec = f.do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	submitted := decodeBody[SubmitResponse](t, rec)
	assert.Equal(t, "Consultation booked! Check your email for confirmation.", submitted.Result.Message)
	assert.Equal(t, "submitted", submitted.Form.Step)

	require.Len(t, f.store.inserted, 1)
	stored := f.store.inserted[0]
	assert.Equal(t, "Jane Doe", stored.Name)
	assert.Equal(t, "jane@co.com", stored.Email)
	assert.Equal(t, "Acme", stored.Company)
	assert.Equal(t, []string{"DevOps Services"}, stored.ServiceInterest)
	assert.Equal(t, "2025-03-01", stored.PreferredDate)
	assert.Equal(t, "10:00 AM EST", stored.PreferredTime)
	assert.Equal(t, 1, f.notifier.calls)

	rec = f.do(t, http.MethodPost, base+"/submit", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, base+"/dismiss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "contact-info", decodeBody[FormResponse](t, rec).Step)
}

func TestSubmitInquiryOneShot(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		code       string
		collection string
	}{
		{
			name:       "contact",
			body:       `{"kind":"general-contact","name":"Jane Doe","email":"jane@co.com","company":"Acme","message":"Hi"}`,
			status:     http.StatusCreated,
			collection: domain.CollectionInquiries,
		},
		{
			name:       "registration",
			body:       `{"kind":"program-registration","name":"Ravi","email":"ravi@college.edu","phone":"9876543210","countryCode":"+91","college":"JNTU","yearOfStudy":"1st Year","consent":true}`,
			status:     http.StatusCreated,
			collection: domain.CollectionRegistrations,
		},
		{
			name:   "registration without consent",
			body:   `{"kind":"program-registration","name":"Ravi","email":"ravi@college.edu","phone":"9876543210","countryCode":"+91","college":"JNTU","yearOfStudy":"1st Year"}`,
			status: http.StatusBadRequest,
			code:   "CONSENT_REQUIRED",
		},
		{
			name:   "schedule missing slot",
			body:   `{"kind":"schedule-assessment","name":"Jane Doe","email":"jane@co.com","company":"Acme","serviceInterest":["SRE Services"],"preferredDate":"2025-03-01"}`,
			status: http.StatusBadRequest,
			code:   "STEP_INCOMPLETE",
		},
		{
			name:   "unknown kind",
			body:   `{"kind":"newsletter","name":"Jane Doe","email":"jane@co.com"}`,
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "malformed body",
			body:   `{"kind":`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntakeFixture(t)
			rec := f.do(t, http.MethodPost, "/api/v1/inquiries", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.code != "" {
				assert.Equal(t, tt.code, decodeBody[ErrorBody](t, rec).Code)
				assert.Empty(t, f.store.inserted)
				assert.Zero(t, f.notifier.calls)
				return
			}
			assert.Equal(t, []string{tt.collection}, f.store.collections)
			assert.Equal(t, 1, f.notifier.calls)
		})
	}
}

func TestSubmitInquiryPersistenceFailure(t *testing.T) {
	f := newIntakeFixture(t)
	f.store.err = errors.New("disk full")

	rec := f.do(t, http.MethodPost, "/api/v1/inquiries", `{"kind":"capabilities-deck-request","name":"Jane Doe","email":"jane@co.com","company":"Acme"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[ErrorBody](t, rec)
	assert.Equal(t, "PERSISTENCE_ERROR", body.Code)
	assert.NotContains(t, body.Message, "disk full")
	assert.Equal(t, 1, f.notifier.calls)
}

func TestUnknownFormSession(t *testing.T) {
	f := newIntakeFixture(t)

	for _, path := range []string{"/api/v1/forms/not-a-uuid", "/api/v1/forms/6f1c2a6e-9d8b-4a57-b1a4-3c2d7e9f0a11"} {
		rec := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestProgramPopupOncePerSession(t *testing.T) {
	f := newIntakeFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/popups/program", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decision := decodeBody[popup.Decision](t, rec)
	assert.True(t, decision.Show)
	assert.Equal(t, int64(2000), decision.DelayMillis)
	assert.Equal(t, ProgramPagePath, decision.Target)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)

	rec = f.do(t, http.MethodPost, "/api/v1/popups/program/dismiss", "", cookies[0])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = f.do(t, http.MethodGet, "/api/v1/popups/program", "", cookies[0])
	assert.False(t, decodeBody[popup.Decision](t, rec).Show)

	// a new visitor still sees it
	rec = f.do(t, http.MethodGet, "/api/v1/popups/program", "")
	assert.True(t, decodeBody[popup.Decision](t, rec).Show)
}

func TestCloseFormSession(t *testing.T) {
	f := newIntakeFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/forms", `{"kind":"general-contact"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[FormResponse](t, rec)
	assert.Equal(t, []domain.Field{domain.FieldName, domain.FieldEmail, domain.FieldCompany, domain.FieldMessage}, created.Required)
	base := "/api/v1/forms/" + created.ID

	rec = f.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitInquiryRejectsHeaderInjection(t *testing.T) {
	f := newIntakeFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/inquiries",
		`{"kind":"general-contact","name":"Eve\r\nReply-To: attacker@evil.test","email":"eve@co.com","company":"Acme","message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorBody](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, []string{"name"}, body.Fields)
	assert.Empty(t, f.store.inserted)
	assert.Zero(t, f.notifier.calls)
}

func TestSubmitRegistrationWithForeignWhatsApp(t *testing.T) {
	f := newIntakeFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/inquiries", `{
		"kind":"program-registration","name":"Ravi","email":"ravi@example.com",
		"phone":"9876543210","countryCode":"+91",
		"whatsapp":"4155550123","whatsappCountryCode":"+1",
		"college":"JNTU Hyderabad","yearOfStudy":"3rd Year","consent":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, f.store.inserted, 1)
	stored := f.store.inserted[0]
	assert.Equal(t, "+1 4155550123", stored.FullWhatsApp())
	assert.Equal(t, "+91 9876543210", stored.FullPhone())
}

func TestPopupAdoptsUnknownSessionCookie(t *testing.T) {
	f := newIntakeFixture(t)
	cookie := &http.Cookie{Name: SessionCookie, Value: "6f1c2a6e-9d8b-4a57-b1a4-3c2d7e9f0a11"}

	rec := f.do(t, http.MethodPost, "/api/v1/popups/program/dismiss", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = f.do(t, http.MethodGet, "/api/v1/popups/program", "", cookie)
	assert.False(t, decodeBody[popup.Decision](t, rec).Show)
}
