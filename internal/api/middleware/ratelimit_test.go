package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoginLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewLoginLimiter(1, 2, zerolog.Nop())
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/token", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", code)
	}
	if code := do("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("second attempt should pass, got %d", code)
	}
	if code := do("10.0.0.1:1000"); code != http.StatusTooManyRequests {
		t.Fatalf("third attempt should be limited, got %d", code)
	}

	// A different client IP keeps its own budget.
	if code := do("10.0.0.2:1000"); code != http.StatusOK {
		t.Fatalf("other IP should not be limited, got %d", code)
	}
}
