package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestHealthCheck(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("refused") })
	log := logrus.New()

	tests := []struct {
		name  string
		db    Pinger
		cache Pinger
		want  int
	}{
		{"all up", ok, ok, http.StatusOK},
		{"cache down is degraded", ok, down, http.StatusOK},
		{"no cache", ok, nil, http.StatusOK},
		{"database down", down, ok, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(log, "healthcare-booking", tt.db, tt.cache)
			rec := httptest.NewRecorder()
			h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
