package relay

import (
	"net/http"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"

	"paramanu/internal/metrics"
)

const maxRequestBytes = 1 << 20

// CORS headers sent on every relay response.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

// Handler exposes a Relay over HTTP.
type Handler struct {
	relay  *Relay
	auth   *Authenticator
	logger *zap.Logger
}

// NewHandler creates the HTTP handler. A nil authenticator leaves the
// endpoint open.
func NewHandler(relay *Relay, auth *Authenticator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{relay: relay, auth: auth, logger: logger}
}

// Mount registers the relay routes.
func (h *Handler) Mount(mux goahttp.Muxer) {
	mux.Handle(http.MethodPost, "/send-whatsapp", h.Send)
	mux.Handle(http.MethodOptions, "/send-whatsapp", h.Preflight)
	mux.Handle(http.MethodGet, "/health", h.Health)
}

// Preflight answers CORS preflight requests with an empty 200.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

// Send decodes a payload and forwards it.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	if h.auth != nil {
		if _, err := h.auth.Verify(r.Header.Get("Authorization")); err != nil {
			h.logger.Warn("Unauthorized relay call", zap.String("remote", r.RemoteAddr), zap.Error(err))
			metrics.RecordRelayRequest("unauthorized")
			h.respond(w, r, http.StatusUnauthorized, failure(err.Error()))
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	var p Payload
	if err := goahttp.RequestDecoder(r).Decode(&p); err != nil {
		h.logger.Warn("Failed to decode relay payload", zap.Error(err))
		metrics.RecordRelayRequest("invalid")
		h.respond(w, r, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	res := h.relay.Forward(r.Context(), p)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	h.respond(w, r, status, res)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy", "service": "relay"})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, res Result) {
	setCORS(w)
	h.writeJSON(w, r, status, res)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := goahttp.ResponseEncoder(r.Context(), w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		h.logger.Error("Failed to encode relay response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func setCORS(w http.ResponseWriter) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
}
