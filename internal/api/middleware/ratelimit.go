package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/russMightyMonk/rumi-analytica/internal/metrics"
)

// LoginLimiter rate-limits login attempts per client IP. State is
// in-memory: this layer holds no shared infrastructure, and losing
// counters on restart only resets the budget.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	logger   zerolog.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter creates a limiter allowing ratePerMinute sustained
// attempts with the given burst, tracked per client IP.
func NewLoginLimiter(ratePerMinute float64, burst int, logger zerolog.Logger) *LoginLimiter {
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(ratePerMinute / 60),
		burst:    burst,
		logger:   logger,
	}
}

// Limit is the middleware entry point.
func (l *LoginLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr

		if !l.allow(ip) {
			metrics.RateLimitHits.WithLabelValues(r.URL.Path).Inc()
			l.logger.Warn().Str("ip", ip).Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			jsonError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *LoginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	l.pruneLocked()
	return v.limiter.Allow()
}

// pruneLocked drops visitors idle for over an hour to bound memory.
func (l *LoginLimiter) pruneLocked() {
	if len(l.visitors) < 1024 {
		return
	}
	cutoff := time.Now().Add(-time.Hour)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}
