// Package rest serves the desk's operations endpoint: Prometheus metrics
// and health probes.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type statePinger interface {
	Ping(ctx context.Context) error
}

type channelProbe interface {
	Connected() bool
}

type sessionProbe interface {
	Authenticated() bool
}

// HealthHandler reports on the local state database, the push channel and
// the session. Only the local state is required for readiness; a lost
// push channel degrades the desk but does not stop it.
type HealthHandler struct {
	state   statePinger
	channel channelProbe
	session sessionProbe
	version string
	now     func() time.Time
}

func NewHealthHandler(state statePinger, channel channelProbe, session sessionProbe, version string) *HealthHandler {
	return &HealthHandler{
		state:   state,
		channel: channel,
		session: session,
		version: version,
		now:     time.Now,
	}
}

// HealthResponse is the JSON body of every probe.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live always answers 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.now()})
}

// Ready answers 503 when the local state database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.state.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "down", Timestamp: h.now()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.now()})
}

// Health reports every component with the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus, 3)
	overall, code := "ok", http.StatusOK

	start := time.Now()
	if err := h.state.Ping(ctx); err != nil {
		components["local_state"] = CompStatus{Status: "down"}
		overall, code = "down", http.StatusServiceUnavailable
	} else {
		components["local_state"] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	authenticated := h.session.Authenticated()
	switch {
	case !authenticated:
		components["session"] = CompStatus{Status: "signed_out"}
		components["push_channel"] = CompStatus{Status: "idle"}
	case h.channel.Connected():
		components["session"] = CompStatus{Status: "ok"}
		components["push_channel"] = CompStatus{Status: "ok"}
	default:
		components["session"] = CompStatus{Status: "ok"}
		components["push_channel"] = CompStatus{Status: "down"}
		if overall == "ok" {
			overall = "degraded"
		}
	}

	writeJSON(w, code, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  h.now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
