package latency

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

// Result holds the samples of one probe against one target. A nil
// entry in Samples marks an attempt that failed or timed out.
type Result struct {
	Target  string
	Samples []*float64
	// Err aggregates the per-attempt failures, for diagnostics only.
	// A probe with every sample failed still has a usable Result.
	Err error
}

// AvgMS returns the arithmetic mean of the successful samples, or nil
// when every attempt failed.
func (r *Result) AvgMS() *float64 {
	var sum float64
	var n int
	for _, s := range r.Samples {
		if s != nil {
			sum += *s
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// Reachable reports whether at least one sample succeeded.
func (r *Result) Reachable() bool {
	return r.AvgMS() != nil
}

// ProberConfig holds configuration for the Prober.
type ProberConfig struct {
	Count    int
	Timeout  time.Duration
	Strategy Strategy
}

// Prober takes repeated latency samples against a single target and
// summarizes them.
type Prober struct {
	config ProberConfig
}

// NewProber creates a new Prober.
func NewProber(cfg ProberConfig) *Prober {
	if cfg.Count <= 0 {
		cfg.Count = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 750 * time.Millisecond
	}
	if cfg.Strategy == nil {
		cfg.Strategy = &TCPStrategy{}
	}
	return &Prober{config: cfg}
}

// Probe measures target Count times sequentially. It never returns an
// error: a failed attempt is recorded as a nil sample so that one dead
// target cannot abort a wider selection pass. Attempts run one after
// another to keep the samples from skewing each other.
func (p *Prober) Probe(ctx context.Context, target string) *Result {
	result := &Result{
		Target:  target,
		Samples: make([]*float64, 0, p.config.Count),
	}

	for i := 0; i < p.config.Count; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		ms, err := p.config.Strategy.Sample(attemptCtx, target)
		cancel()

		if err != nil {
			result.Samples = append(result.Samples, nil)
			result.Err = multierr.Append(result.Err, err)
			continue
		}
		result.Samples = append(result.Samples, &ms)
	}

	return result
}
