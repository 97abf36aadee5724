package latency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestHostPort(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "https defaults to 443",
			target: "https://a.example.com/api/v1/transactions",
			want:   "a.example.com:443",
		},
		{
			name:   "http defaults to 80",
			target: "http://b.example.com",
			want:   "b.example.com:80",
		},
		{
			name:   "explicit port wins",
			target: "http://c.example.com:8899",
			want:   "c.example.com:8899",
		},
		{
			name:   "bare host:port passes through",
			target: "127.0.0.1:8080",
			want:   "127.0.0.1:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hostPort(tt.target); got != tt.want {
				t.Errorf("hostPort(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestHTTPStrategySamplesTLSTarget(t *testing.T) {
	var heads atomic.Int64
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			heads.Add(1)
		}
	}))
	defer srv.Close()

	// The test server's client trusts its certificate.
	strategy := &HTTPStrategy{client: srv.Client()}

	ms, err := strategy.Sample(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Sample against https target failed: %v", err)
	}
	if ms < 0 {
		t.Errorf("Sample = %f, want >= 0", ms)
	}
	if heads.Load() != 1 {
		t.Errorf("server saw %d HEAD requests, want 1 (probe must speak TLS, not plaintext)", heads.Load())
	}
}

func TestHTTPStrategySchemesBareTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	strategy := NewHTTPStrategy()

	addr := strings.TrimPrefix(srv.URL, "http://")
	if _, err := strategy.Sample(context.Background(), addr); err != nil {
		t.Fatalf("Sample against bare host:port failed: %v", err)
	}

	if _, err := strategy.Sample(context.Background(), srv.URL); err != nil {
		t.Fatalf("Sample against http url failed: %v", err)
	}
}

func TestHTTPStrategyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewHTTPStrategy().Sample(context.Background(), srv.URL); err == nil {
		t.Error("Sample should fail on a 5xx answer")
	}
}
