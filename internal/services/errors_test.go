package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "paramanu/pkg/errors"
)

func TestToServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		status int
	}{
		{"validation", apperrors.New(apperrors.ErrCodeValidation, "bad"), ErrNameBadRequest, http.StatusBadRequest},
		{"invalid phone", apperrors.New(apperrors.ErrCodeInvalidPhone, "bad"), ErrNameBadRequest, http.StatusBadRequest},
		{"consent", apperrors.New(apperrors.ErrCodeConsentRequired, "bad"), ErrNameBadRequest, http.StatusBadRequest},
		{"step incomplete", apperrors.New(apperrors.ErrCodeStepIncomplete, "bad"), ErrNameBadRequest, http.StatusBadRequest},
		{"unauthorized", apperrors.New(apperrors.ErrCodeUnauthorized, "no"), ErrNameUnauthorized, http.StatusUnauthorized},
		{"not found", apperrors.New(apperrors.ErrCodeNotFound, "gone"), ErrNameNotFound, http.StatusNotFound},
		{"invalid state", apperrors.New(apperrors.ErrCodeInvalidState, "no"), ErrNameConflict, http.StatusConflict},
		{"in flight", apperrors.New(apperrors.ErrCodeSubmissionInFlight, "wait"), ErrNameConflict, http.StatusConflict},
		{"persistence", apperrors.Wrap(apperrors.ErrCodePersistence, "save failed", errors.New("db")), ErrNameInternal, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", apperrors.New(apperrors.ErrCodeNotFound, "gone")), ErrNameNotFound, http.StatusNotFound},
		{"plain", errors.New("boom"), ErrNameInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcErr, status := ToServiceError(tt.err)
			assert.Equal(t, tt.want, svcErr.Name)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, svcErr.ID)
			assert.Equal(t, status == http.StatusInternalServerError, svcErr.Fault)
		})
	}
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()

	writeJSON(brokenWriter{rec}, httptest.NewRequest(http.MethodGet, "/api/v1/forms", nil), zap.New(core), http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	entries := logs.FilterMessage("Failed to encode response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/forms", entries[0].ContextMap()["path"])
}
