package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
)

// Pinger checks a dependency.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResult is the health endpoint body.
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database,omitempty"`
}

// HealthService implements the health service
type HealthService struct {
	service string
	db      Pinger
	logger  *zap.Logger
}

// NewHealthService creates a new health service. db may be nil.
func NewHealthService(service string, db Pinger, logger *zap.Logger) *HealthService {
	return &HealthService{service: service, db: db, logger: logger.Named("health")}
}

// Check implements the health check method
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	res := &HealthResult{Status: "healthy", Service: s.service}
	if s.db == nil {
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		res.Status = "degraded"
		res.Database = "unreachable"
		return res
	}
	res.Database = "ok"
	return res
}

// Mount registers GET /health.
func (s *HealthService) Mount(mux goahttp.Muxer) {
	mux.Handle(http.MethodGet, "/health", func(w http.ResponseWriter, r *http.Request) {
		res := s.Check(r.Context())
		status := http.StatusOK
		if res.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, r, s.logger, status, res)
	})
}
