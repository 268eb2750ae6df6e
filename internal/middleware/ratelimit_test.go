package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded first entry", "203.0.113.9, 10.0.0.1", "10.0.0.2:1234", "203.0.113.9"},
		{"forwarded skips junk", "not-an-ip, 203.0.113.9", "10.0.0.2:1234", "203.0.113.9"},
		{"remote addr host", "", "192.0.2.4:5678", "192.0.2.4"},
		{"remote addr without port", "", "192.0.2.4", "192.0.2.4"},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tc.remoteAddr
		if tc.forwarded != "" {
			r.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		if got := ClientIP(r); got != tc.want {
			t.Fatalf("%s: ClientIP = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimit(2, time.Minute)(ok)

	send := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ip + ":1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	if got := send("192.0.2.1").Code; got != http.StatusNoContent {
		t.Fatalf("first request status = %d, want 204", got)
	}
	if got := send("192.0.2.1").Code; got != http.StatusNoContent {
		t.Fatalf("second request status = %d, want 204", got)
	}
	third := send("192.0.2.1")
	if third.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", third.Code)
	}
	if third.Header().Get("Retry-After") == "" {
		t.Fatalf("rejected request must carry Retry-After")
	}

	// Another client has its own window.
	if got := send("192.0.2.2").Code; got != http.StatusNoContent {
		t.Fatalf("other client status = %d, want 204", got)
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimit(1, 10*time.Millisecond)(ok)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1000"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 inside the window", w.Code)
	}

	time.Sleep(20 * time.Millisecond)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 after window reset", w.Code)
	}
}
