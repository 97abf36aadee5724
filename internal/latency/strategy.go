package latency

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Strategy defines how a single latency sample is taken against a
// probe target. The target is a URL, or a bare host:port for targets
// without an HTTP surface.
type Strategy interface {
	// Name returns the strategy identifier ("tcp" or "http").
	Name() string
	// Sample measures one round trip and returns the elapsed time in
	// milliseconds.
	Sample(ctx context.Context, target string) (latencyMS float64, err error)
}

// hostPort reduces a probe target to the host:port to dial. Bare
// host:port targets pass through; URLs default their port by scheme.
func hostPort(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return target
	}

	port := u.Port()
	if port == "" {
		if strings.EqualFold(u.Scheme, "https") {
			port = "443"
		} else {
			port = "80"
		}
	}
	return u.Hostname() + ":" + port
}

// TCPStrategy measures latency as the wall-clock time to establish and
// tear down a TCP connection. Cheap, and needs no application-level
// support from the target.
type TCPStrategy struct{}

func (s *TCPStrategy) Name() string { return "tcp" }

func (s *TCPStrategy) Sample(ctx context.Context, target string) (float64, error) {
	start := time.Now()
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", hostPort(target))
	if err != nil {
		return 0, fmt.Errorf("tcp handshake failed: %w", err)
	}
	conn.Close()
	elapsed := time.Since(start)

	return float64(elapsed.Nanoseconds()) / 1e6, nil
}

// HTTPStrategy measures latency as the time to complete a HEAD request
// against the target URL, TLS handshake included for https targets.
// Heavier than TCP but validates that the service actually answers
// HTTP.
type HTTPStrategy struct {
	client *http.Client
}

// NewHTTPStrategy creates an HTTP strategy with keep-alives disabled so
// every sample pays the full connection cost.
func NewHTTPStrategy() *HTTPStrategy {
	return &HTTPStrategy{
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *HTTPStrategy) Name() string { return "http" }

func (s *HTTPStrategy) Sample(ctx context.Context, target string) (float64, error) {
	// Bare host:port targets get a scheme; URLs keep their own, so
	// https regions are probed over TLS.
	if !strings.Contains(target, "://") {
		target = "http://" + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request failed: %w", err)
	}
	resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode >= 500 {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return float64(elapsed.Nanoseconds()) / 1e6, nil
}

// NewStrategy creates a Strategy by name. Valid names: "tcp", "http".
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "tcp", "":
		return &TCPStrategy{}, nil
	case "http":
		return NewHTTPStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown probe strategy: %s (available: tcp, http)", name)
	}
}
