package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/pkg/response"

	"github.com/sirupsen/logrus"
)

// Pinger is satisfied by *sql.DB and, through an adapter, by the redis client.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	log     *logrus.Logger
	service string
	db      Pinger
	cache   Pinger
	started time.Time
}

// NewHealthHandler reports the database as required and the cache as optional.
// cache may be nil.
func NewHealthHandler(log *logrus.Logger, service string, db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		log:     log,
		service: service,
		db:      db,
		cache:   cache,
		started: time.Now(),
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]interface{}{
		"status":    "OK",
		"service":   h.service,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"database":  "up",
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warnf("Health check: database unreachable: %+v", err)
		body["database"] = "down"
		body["status"] = "UNAVAILABLE"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		body["cache"] = "up"
		if err := h.cache.PingContext(ctx); err != nil {
			h.log.Warnf("Health check: cache unreachable: %+v", err)
			body["cache"] = "down"
		}
	}

	response.JSON(w, status, body)
}
