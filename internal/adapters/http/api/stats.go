package api

import (
	"net/http"
	"time"

	service "github.com/okian/drape/internal/app"
)

// StatsProvider reports the styling service's runtime state.
type StatsProvider interface {
	GetStats() service.Stats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
	now      func() time.Time
}

// statsResponse flattens the service stats and adds process uptime.
type statsResponse struct {
	service.Stats
	UptimeSeconds int64 `json:"uptimeSeconds"`
}

// NewStatsHandler creates a stats handler whose uptime starts now.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now(), now: time.Now}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Stats:         h.provider.GetStats(),
		UptimeSeconds: int64(h.now().Sub(h.started) / time.Second),
	})
}
