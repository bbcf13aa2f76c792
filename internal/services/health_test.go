package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		status int
		want   HealthResult
	}{
		{"no database", nil, http.StatusOK, HealthResult{Status: "healthy", Service: "intake"}},
		{"database up", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, HealthResult{Status: "healthy", Service: "intake", Database: "ok"}},
		{"database down", pingerFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable, HealthResult{Status: "degraded", Service: "intake", Database: "unreachable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := goahttp.NewMuxer()
			NewHealthService("intake", tt.db, zap.NewNop()).Mount(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, decodeBody[HealthResult](t, rec))
		})
	}
}
