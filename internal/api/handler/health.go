package handler

import (
	"net/http"

	"github.com/dbenamy/hack-retro/internal/api/response"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// Ready reports whether the session has been initialized and is still
// connected
func (h *SessionHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var phase string
	var connected bool
	err := h.loop.Do(r.Context(), func() {
		phase = h.session.Phase().String()
		connected = h.session.Connected()
	})
	if err != nil {
		response.Unavailable(w, "session is not running")
		return
	}
	if !connected {
		response.Unavailable(w, "session connection lost")
		return
	}
	if phase == "" {
		response.Unavailable(w, "waiting for session state")
		return
	}

	response.OK(w, map[string]string{
		"status": "ready",
		"phase":  phase,
	})
}
