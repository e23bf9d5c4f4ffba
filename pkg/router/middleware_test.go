package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestHealthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := HealthMiddleware(next)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/history", http.StatusTeapot},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

		if rr.Code != tt.want {
			t.Errorf("%s: got status %d, want %d", tt.path, rr.Code, tt.want)
		}
	}
}

func TestOptionsMiddleware(t *testing.T) {
	cr := chi.NewRouter()
	cr.Use(OptionsMiddleware)
	cr.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	cr.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/version", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusOK)
	}

	if got := rr.Header().Get("Allow"); got != "GET, OPTIONS" {
		t.Errorf("Allow = %q, want %q", got, "GET, OPTIONS")
	}

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "*")
	}

	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
		t.Errorf("Authorization should be an accepted header")
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	h := RequestSizeLimitMiddleware(8)(next)

	tests := []struct {
		body string
		want int
	}{
		{"small", http.StatusOK},
		{"way too large for the limit", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transfers", strings.NewReader(tt.body)))

		if rr.Code != tt.want {
			t.Errorf("%q: got status %d, want %d", tt.body, rr.Code, tt.want)
		}
	}
}
