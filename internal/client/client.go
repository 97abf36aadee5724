package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"bamroute/internal/regions"
	"bamroute/internal/router"
	"bamroute/internal/storage"
	"bamroute/internal/storage/models"
	pkgerrors "bamroute/pkg/errors"
)

// Config holds configuration for the Client.
type Config struct {
	// RegionCode pins submission to one region. Empty means pick the
	// fastest region per call.
	RegionCode string
	Router     *router.Router
	HTTPClient *http.Client
	// Storage, when set, receives a best-effort record of every
	// submission.
	Storage storage.Storage

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Logf emits diagnostic progress lines. Defaults to log.Printf;
	// set to a no-op to silence.
	Logf func(format string, args ...any)
}

// Client submits signed transactions to the lowest-latency BAM region,
// or to a caller-pinned one.
type Client struct {
	regionCode string
	router     *router.Router
	http       *http.Client
	storage    storage.Storage

	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logf       func(format string, args ...any)
}

// New creates a new Client.
func New(cfg Config) *Client {
	if cfg.Router == nil {
		cfg.Router = router.New(router.Config{})
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 1 * time.Second
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}
	return &Client{
		regionCode: cfg.RegionCode,
		router:     cfg.Router,
		http:       cfg.HTTPClient,
		storage:    cfg.Storage,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logf:       cfg.Logf,
	}
}

// ResolveEndpoint determines the submission destination. A pinned
// region code is looked up by exact match; otherwise every region is
// probed and the fastest wins. The returned URL already reflects the
// shared fallback for regions without their own submission endpoint.
func (c *Client) ResolveEndpoint(ctx context.Context) (regions.Region, string, error) {
	if c.regionCode != "" {
		region, err := regions.Lookup(c.regionCode)
		if err != nil {
			return regions.Region{}, "", err
		}
		return region, regions.TxEndpointFor(region), nil
	}

	fastest := c.router.PickFastestRegion(ctx)
	return fastest, regions.TxEndpointFor(fastest), nil
}

// SendOptions carries the optional per-submission knobs.
type SendOptions struct {
	Encoding            Encoding
	SkipPreflight       bool
	PreflightCommitment string
	// MaxRetries overrides the client-wide retry budget when > 0.
	MaxRetries int
}

// SendTransaction submits a signed transaction. tx is either raw bytes
// (encoded per opts.Encoding, default base58) or an already-encoded
// string passed through verbatim.
//
// Only transport-level failures are retried, with linear backoff; a
// JSON-RPC error envelope or a malformed response is definitive and
// surfaces immediately.
func (c *Client) SendTransaction(ctx context.Context, tx any, opts SendOptions) (*Response, error) {
	// Reject bad input before touching the network.
	encoded, err := encodePayload(tx, opts.Encoding)
	if err != nil {
		return nil, err
	}

	region, endpoint, err := c.ResolveEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	params := []any{encoded}
	rpcOpts := sendOptions{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
	}
	if !rpcOpts.empty() {
		params = append(params, rpcOpts)
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  submitMethod,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	maxRetries := c.maxRetries
	if opts.MaxRetries > 0 {
		maxRetries = opts.MaxRetries
	}

	c.logf("Sending transaction (%d chars) to %s", len(encoded), endpoint)

	record := &models.Submission{
		Region:   region.Code,
		Endpoint: endpoint,
		Encoding: string(opts.Encoding),
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			c.logf("Attempt %d failed, retrying... (%v)", attempt-1, lastErr)
			delay := time.Duration(attempt-1) * c.retryDelay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		record.Attempts = attempt

		resp, err := c.post(ctx, endpoint, body)
		if err == nil {
			record.Success = true
			record.Signature = resp.Signature()
			c.record(ctx, record)
			return resp, nil
		}

		// Only the transport layer failing is worth another attempt.
		// Anything else means the service answered and the answer is
		// final.
		if !pkgerrors.IsTransport(err) {
			record.Error = err.Error()
			c.record(ctx, record)
			return nil, err
		}
		lastErr = err
	}

	record.Error = lastErr.Error()
	c.record(ctx, record)
	return nil, lastErr
}

// post performs one submission attempt and validates the response
// envelope.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &pkgerrors.TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &pkgerrors.TransportError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrors.TransportError{URL: endpoint, Err: err}
	}

	envelope := &Response{Raw: raw}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}

	if envelope.Error != nil {
		return nil, &pkgerrors.RPCError{
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}
	if len(envelope.Result) == 0 {
		return nil, pkgerrors.ErrInvalidResponse
	}

	return envelope, nil
}

func (c *Client) record(ctx context.Context, sub *models.Submission) {
	if c.storage == nil {
		return
	}
	// Best-effort; the submission outcome already belongs to the caller.
	if err := c.storage.RecordSubmission(ctx, sub); err != nil {
		c.logf("Failed to record submission: %v", err)
	}
}

// RegionInfo describes one region's probe outcome for listing.
type RegionInfo struct {
	Region    string     `json:"region"`
	BamURL    string     `json:"bam_url"`
	TxURL     string     `json:"tx_url"`
	AvgMS     *float64   `json:"avg_ms"`
	SamplesMS []*float64 `json:"samples_ms"`
	Fastest   bool       `json:"fastest"`
}

// ListRegions probes every region and reports latency per region, with
// the fastest one marked. Unreachable regions report a nil average.
func (c *Client) ListRegions(ctx context.Context, progress router.ProgressFunc) []RegionInfo {
	results := c.router.ProbeAll(ctx, progress)
	fastest := router.PickFastest(results)

	infos := make([]RegionInfo, 0, len(results))
	for _, res := range results {
		infos = append(infos, RegionInfo{
			Region:    res.Region.Code,
			BamURL:    res.Region.BamURL,
			TxURL:     regions.TxEndpointFor(res.Region),
			AvgMS:     res.Probe.AvgMS(),
			SamplesMS: res.Probe.Samples,
			Fastest:   res.Region.Code == fastest.Code,
		})
	}
	return infos
}
