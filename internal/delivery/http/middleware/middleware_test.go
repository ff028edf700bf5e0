package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/config"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/jwt"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/metrics"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "test"})
	mw := NewAuthMiddleware(jwtService)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, "alice", "alice@example.com", entity.RoleIDPatient)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var seen uuid.UUID
	var seenRole int
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		seenRole, _ = GetRoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusForbidden},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if seen != userID || seenRole != entity.RoleIDPatient {
		t.Fatalf("context carried user %s role %d", seen, seenRole)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(okHandler())

	tests := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"no role", context.Background(), http.StatusUnauthorized},
		{"patient", context.WithValue(context.Background(), RoleIDKey, entity.RoleIDPatient), http.StatusForbidden},
		{"admin", context.WithValue(context.Background(), RoleIDKey, entity.RoleIDAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORSMiddleware("http://localhost:3000").Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight reached the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	NewCORSMiddleware("http://localhost:3000").Handle(okHandler()).ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin echoed: %q", got)
	}
}

type countingLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (l *countingLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.hits[key]++
	return l.hits[key] <= l.limit, nil
}

func TestRateLimit(t *testing.T) {
	collector := metrics.NewCollector("test")
	limiter := &countingLimiter{limit: 2, hits: map[string]int{}}
	handler := NewRateLimitMiddleware(limiter, "auth", nil, quietLogger(), collector).Handle(okHandler())

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("203.0.113.7:4000"); code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, code)
		}
	}
	if code := send("203.0.113.7:4001"); code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", code)
	}
	if code := send("198.51.100.1:4000"); code != http.StatusOK {
		t.Fatalf("other client status = %d", code)
	}
	if _, ok := limiter.hits["auth:203.0.113.7"]; !ok {
		t.Fatalf("limiter keys = %v", limiter.hits)
	}
	if got := promtestutil.ToFloat64(collector.RateLimitedTotal); got != 1 {
		t.Fatalf("rate limited total = %v, want 1", got)
	}
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	limiter := &countingLimiter{limit: 1, hits: map[string]int{}}
	proxies := TrustedProxies{netip.MustParsePrefix("10.0.0.0/8")}
	handler := NewRateLimitMiddleware(limiter, "auth", proxies, quietLogger(), metrics.NewCollector("test")).Handle(okHandler())

	allowed := 0
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "198.51.100.23:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}
	if allowed != 1 {
		t.Fatalf("allowed %d of 5 requests with rotating X-Forwarded-For, want 1", allowed)
	}
	if len(limiter.hits) != 1 || limiter.hits["auth:198.51.100.23"] != 5 {
		t.Fatalf("limiter keys = %v", limiter.hits)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	handler := NewRateLimitMiddleware(limiter, "auth", nil, quietLogger(), metrics.NewCollector("test")).Handle(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	proxies := TrustedProxies{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
	}

	tests := []struct {
		name       string
		proxies    TrustedProxies
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"no proxies configured", nil, "192.0.2.10:5555", "203.0.113.9", "192.0.2.10"},
		{"untrusted peer", proxies, "198.51.100.4:80", "203.0.113.9", "198.51.100.4"},
		{"trusted peer without header", proxies, "10.1.2.3:80", "", "10.1.2.3"},
		{"trusted peer", proxies, "10.1.2.3:80", "203.0.113.9", "203.0.113.9"},
		{"spoofed left hops", proxies, "10.1.2.3:80", "1.1.1.1, 203.0.113.9", "203.0.113.9"},
		{"proxy chain", proxies, "10.1.2.3:80", "203.0.113.9, 192.0.2.1, 10.9.9.9", "203.0.113.9"},
		{"garbage hop stops the walk", proxies, "10.1.2.3:80", "203.0.113.9, junk, 10.9.9.9", "10.9.9.9"},
		{"mapped ipv4 peer", proxies, "[::ffff:10.1.2.3]:80", "203.0.113.9", "203.0.113.9"},
		{"no port", nil, "192.0.2.10", "", "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := tt.proxies.ClientIP(req); got != tt.want {
				t.Fatalf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
