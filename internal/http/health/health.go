package health

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type status struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
}

// Checker answers liveness from the process alone and readiness from the
// store.
type Checker struct {
	log       *slog.Logger
	store     Pinger
	opTimeout time.Duration
	started   time.Time
}

func NewChecker(log *slog.Logger, p Pinger, opTimeout time.Duration) *Checker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Checker{log: log, store: p, opTimeout: opTimeout, started: time.Now()}
}

// New returns a standalone router serving /health and /readyz.
func New(log *slog.Logger, p Pinger, opTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	NewChecker(log, p, opTimeout).Mount(r)
	return r
}

// Mount registers the probes on r, outside any auth group.
func (c *Checker) Mount(r chi.Router) {
	r.Get("/health", c.live)
	r.Get("/readyz", c.ready)
}

func (c *Checker) live(w http.ResponseWriter, _ *http.Request) {
	write(w, http.StatusOK, status{Status: "ok", Uptime: time.Since(c.started).Round(time.Second).String()})
}

func (c *Checker) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.opTimeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		c.log.WarnContext(ctx, "readiness failed", "err", err)
		write(w, http.StatusServiceUnavailable, status{Status: "unavailable"})
		return
	}
	write(w, http.StatusOK, status{Status: "ready"})
}

func write(w http.ResponseWriter, code int, s status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(s)
}
