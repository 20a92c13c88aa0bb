// Toroama Catalog - Work and Circle Catalog Query Engine
// Copyright 2026 tl-toroama
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tl-toroama/catalog

package api

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tl-toroama/catalog/internal/config"
	"github.com/tl-toroama/catalog/internal/logging"
	"github.com/tl-toroama/catalog/internal/metrics"
	"github.com/tl-toroama/catalog/internal/models"
)

// AdminTokenHeader carries the admin token on /api/v1/admin requests.
const AdminTokenHeader = "X-Admin-Token"

// ChiMiddlewareConfig holds configuration for the chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	// Rate limiting configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers are believed when keying the rate limiter.
	TrustedProxies []string
}

// DefaultChiMiddlewareConfig returns the defaults for a public read-only
// API: any origin, GET and HEAD only, 100 requests per minute per client.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "If-None-Match"},
		CORSExposedHeaders: []string{"ETag", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddlewareConfigFromSecurity builds the middleware config from the
// security section of the application config.
func ChiMiddlewareConfigFromSecurity(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	if len(sec.CORSOrigins) > 0 {
		cfg.CORSAllowedOrigins = sec.CORSOrigins
	}
	if sec.AdminToken != "" {
		cfg.CORSAllowedMethods = append(cfg.CORSAllowedMethods, "POST")
		cfg.CORSAllowedHeaders = append(cfg.CORSAllowedHeaders, AdminTokenHeader)
	}
	if sec.RateLimitReqs > 0 {
		cfg.RateLimitRequests = sec.RateLimitReqs
	}
	if sec.RateLimitWindow > 0 {
		cfg.RateLimitWindow = sec.RateLimitWindow
	}
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	cfg.TrustedProxies = sec.TrustedProxies
	return cfg
}

// ChiMiddleware provides chi-compatible middleware built from one config.
type ChiMiddleware struct {
	config  *ChiMiddlewareConfig
	cors    func(http.Handler) http.Handler
	proxies []*net.IPNet
}

// NewChiMiddleware creates the middleware factory. Invalid trusted proxy
// entries are logged and skipped.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: cfg.CORSAllowedMethods,
		AllowedHeaders: cfg.CORSAllowedHeaders,
		ExposedHeaders: cfg.CORSExposedHeaders,
		MaxAge:         cfg.CORSMaxAge,
	})

	m := &ChiMiddleware{config: cfg, cors: corsHandler}
	for _, p := range cfg.TrustedProxies {
		ipNet, err := parseProxy(p)
		if err != nil {
			logging.Warn().Str("proxy", p).Err(err).Msg("Ignoring invalid trusted proxy")
			continue
		}
		m.proxies = append(m.proxies, ipNet)
	}
	return m
}

func parseProxy(s string) (*net.IPNet, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		if ip := net.ParseIP(s); ip != nil && ip.To4() != nil {
			s += "/32"
		} else {
			s += "/128"
		}
	}
	_, ipNet, err := net.ParseCIDR(s)
	return ipNet, err
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the per-client limiter. Rejections are answered with
// a JSON error envelope and counted in api_rate_limit_hits_total.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(m.clientKey),
		httprate.WithLimitHandler(rateLimited),
	)
}

// clientKey keys on the peer address, or on the forwarded client address
// when the peer is a trusted proxy.
func (m *ChiMiddleware) clientKey(r *http.Request) (string, error) {
	if len(m.proxies) > 0 && m.trusted(r.RemoteAddr) {
		return httprate.KeyByRealIP(r)
	}
	return httprate.KeyByIP(r)
}

func (m *ChiMiddleware) trusted(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range m.proxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	metrics.APIRateLimitHits.WithLabelValues(routeLabel(r)).Inc()
	respondError(w, r, http.StatusTooManyRequests, models.ErrCodeRateLimited, "rate limit exceeded, retry later", nil)
}

// routeLabel keeps the label set bounded: the first two segments under
// /api/v1 at most.
func routeLabel(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	parts := strings.SplitN(path, "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/api/v1/" + strings.Join(parts, "/")
}

// APISecurityHeaders adds the headers every API response carries. HSTS is
// set only when the request arrived over TLS, directly or via a proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// token. An empty token disables the guarded routes entirely.
func RequireAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				respondNotFound(w, r, "route")
				return
			}
			got := r.Header.Get(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				logging.Ctx(r.Context()).Warn().
					Str("path", sanitizeLogValue(r.URL.Path)).
					Msg("Rejected admin request")
				respondError(w, r, http.StatusUnauthorized, models.ErrCodeUnauthorized, "admin token required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
