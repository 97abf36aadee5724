package router

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"bamroute/internal/latency"
	"bamroute/internal/regions"
)

// RegionResult pairs a region with the outcome of probing it.
type RegionResult struct {
	Region regions.Region
	Probe  *latency.Result
}

// ProgressFunc is called each time a single region probe completes.
type ProgressFunc func(result *RegionResult, current, total int)

// Config holds configuration for the Router.
type Config struct {
	Workers int64
	Prober  *latency.Prober
	Table   []regions.Region
}

// Router selects the lowest-latency region among the known table.
type Router struct {
	config Config
}

// New creates a new Router.
func New(cfg Config) *Router {
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cfg.Prober == nil {
		cfg.Prober = latency.NewProber(latency.ProberConfig{})
	}
	if cfg.Table == nil {
		cfg.Table = regions.Regions
	}
	return &Router{config: cfg}
}

// Table returns the region table the router selects over.
func (r *Router) Table() []regions.Region {
	return r.config.Table
}

// ProbeAll probes every known region concurrently and returns one
// result per region, in table order. It returns only once every probe
// has completed; an unreachable region yields a result with no defined
// average rather than an error.
func (r *Router) ProbeAll(ctx context.Context, progress ProgressFunc) []RegionResult {
	table := r.config.Table
	results := make([]RegionResult, len(table))

	sem := semaphore.NewWeighted(r.config.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var completed int

	for i, region := range table {
		wg.Add(1)
		go func(idx int, reg regions.Region) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[idx] = RegionResult{Region: reg, Probe: &latency.Result{Err: err}}
				return
			}
			defer sem.Release(1)

			probe := r.config.Prober.Probe(ctx, regions.ProbeURL(reg))
			results[idx] = RegionResult{Region: reg, Probe: probe}

			mu.Lock()
			completed++
			current := completed
			mu.Unlock()

			if progress != nil {
				progress(&results[idx], current, len(table))
			}
		}(i, region)
	}

	wg.Wait()
	return results
}

// PickFastest selects the region with the lowest defined average
// latency. Ties resolve to the earlier table entry. When no region has
// a defined average, the canonical default region is returned, so
// selection never fails.
func PickFastest(results []RegionResult) regions.Region {
	var best *RegionResult
	var bestAvg float64

	for i := range results {
		avg := results[i].Probe.AvgMS()
		if avg == nil {
			continue
		}
		if best == nil || *avg < bestAvg {
			best = &results[i]
			bestAvg = *avg
		}
	}

	if best == nil {
		return regions.Default()
	}
	return best.Region
}

// PickFastestRegion probes all regions and returns the fastest one.
func (r *Router) PickFastestRegion(ctx context.Context) regions.Region {
	return PickFastest(r.ProbeAll(ctx, nil))
}
