package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() (http.Handler, *int) {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	}), &calls
}

func TestRateLimiter_AllowsThenRejectsSameKey(t *testing.T) {
	rl := NewRateLimiter(0.02, 1)
	next, calls := okHandler()
	h := rl.Middleware()(next)

	r1 := httptest.NewRequest(http.MethodGet, "/members", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/members", nil)
	r2.RemoteAddr = "10.0.0.1:5678"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got == "" {
		t.Fatalf("expected Retry-After header to be set")
	}
	if *calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", *calls)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(0.02, 1)
	next, _ := okHandler()
	h := rl.Middleware()(next)

	for i, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		r := httptest.NewRequest(http.MethodGet, "/members", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimiter_UsesForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.02, 1)
	next, _ := okHandler()
	h := rl.Middleware()(next)

	r1 := httptest.NewRequest(http.MethodGet, "/members", nil)
	r1.RemoteAddr = "10.0.0.1:1"
	r1.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	// Same forwarded client from a different hop shares the bucket.
	r2 := httptest.NewRequest(http.MethodGet, "/members", nil)
	r2.RemoteAddr = "10.0.0.2:1"
	r2.Header.Set("X-Forwarded-For", "203.0.113.7")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
}

func TestRateLimiter_CleanupRemovesIdleEntries(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.idleTTL = 10 * time.Millisecond

	rl.get("a")
	rl.get("b")
	if len(rl.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(rl.entries))
	}

	time.Sleep(20 * time.Millisecond)
	rl.get("c")
	rl.Cleanup()

	if len(rl.entries) != 1 {
		t.Fatalf("expected 1 entry after cleanup, got %d", len(rl.entries))
	}
	if _, ok := rl.entries["c"]; !ok {
		t.Fatalf("expected fresh entry to survive cleanup")
	}
}

func TestClientKey(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", "", "10.0.0.1"},
		{"forwarded for", "10.0.0.1:1234", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain", "10.0.0.1:1234", "203.0.113.7, 10.0.0.9", "203.0.113.7"},
		{"no port", "10.0.0.1", "", "10.0.0.1"},
		{"empty", "", "", "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := clientKey(r); got != tc.want {
				t.Fatalf("clientKey() = %q, want %q", got, tc.want)
			}
		})
	}
}
