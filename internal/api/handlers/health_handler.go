package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/process"
)

const pingTimeout = 3 * time.Second

// Pinger checks that the MeetYou API answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status        string  `json:"status"`
	Upstream      string  `json:"upstream"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	RSSBytes      uint64  `json:"rssBytes"`
}

// HealthHandler reports process stats and whether the API is reachable.
type HealthHandler struct {
	api     Pinger
	started time.Time
	proc    *process.Process
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(api Pinger) *HealthHandler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn().Err(err).Msg("Process stats unavailable")
	}
	return &HealthHandler{api: api, started: time.Now(), proc: proc}
}

// Get handles GET /healthz. It always answers 200; a broken upstream shows
// as status "degraded".
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Upstream:      "ok",
		UptimeSeconds: time.Since(h.started).Seconds(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := h.api.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("MeetYou API health check failed")
		resp.Status = "degraded"
		resp.Upstream = err.Error()
	}

	if h.proc != nil {
		if mem, err := h.proc.MemoryInfoWithContext(r.Context()); err == nil {
			resp.RSSBytes = mem.RSS
		} else {
			log.Debug().Err(err).Msg("Failed to read memory info")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
