package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/RouteClouds/Health-Care-Management-System/internal/service"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/metrics"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/response"

	"github.com/sirupsen/logrus"
)

// RateLimitMiddleware limits requests per client IP. When the limiter itself
// fails the request is let through.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	scope   string
	proxies TrustedProxies
	log     *logrus.Logger
	metrics *metrics.Collector
}

func NewRateLimitMiddleware(limiter service.RateLimiter, scope string, proxies TrustedProxies, log *logrus.Logger, metrics *metrics.Collector) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		scope:   scope,
		proxies: proxies,
		log:     log,
		metrics: metrics,
	}
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := m.limiter.Allow(r.Context(), m.scope+":"+m.proxies.ClientIP(r))
		if err != nil {
			m.log.Warnf("Rate limiter unavailable, allowing request: %+v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			m.metrics.RateLimitedTotal.Inc()
			response.TooManyRequests(w, "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TrustedProxies are the networks whose X-Forwarded-For header is believed.
type TrustedProxies []netip.Prefix

func (p TrustedProxies) trusts(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the connection address. When that address is a trusted
// proxy, X-Forwarded-For is walked from the right and the first hop that is
// not itself a trusted proxy wins; hops further left are client-controlled.
func (p TrustedProxies) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	addr, err := netip.ParseAddr(remote)
	if err != nil || !p.trusts(addr) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		hopAddr, err := netip.ParseAddr(hop)
		if err != nil {
			break
		}
		client = hopAddr.Unmap().String()
		if !p.trusts(hopAddr) {
			break
		}
	}
	return client
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
