package router

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"bamroute/internal/regions"
	"bamroute/internal/storage"
)

// PassFunc is called after each scheduled probe pass with the full
// results and the winning region.
type PassFunc func(results []RegionResult, fastest regions.Region)

// Scheduler re-probes all regions on a fixed interval and records the
// current fastest region as the preferred-region setting.
type Scheduler struct {
	scheduler gocron.Scheduler
	router    *Router
	storage   storage.Storage
	interval  time.Duration
	onPass    PassFunc
	running   bool
}

// NewScheduler creates a new probe scheduler.
func NewScheduler(r *Router, store storage.Storage, interval time.Duration, onPass PassFunc) (*Scheduler, error) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: scheduler,
		router:    r,
		storage:   store,
		interval:  interval,
		onPass:    onPass,
	}, nil
}

// Start starts the scheduler and runs an immediate first pass.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.refresh(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create probe job: %w", err)
	}

	s.scheduler.Start()
	s.running = true

	go s.refresh(ctx)

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() error {
	if !s.running {
		return fmt.Errorf("scheduler is not running")
	}

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}

	s.running = false
	return nil
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	return s.running
}

func (s *Scheduler) refresh(ctx context.Context) {
	results := s.router.ProbeAll(ctx, nil)
	fastest := PickFastest(results)

	// Record the winner (best-effort).
	if s.storage != nil {
		if err := s.storage.SetSetting(ctx, storage.KeyPreferredRegion, fastest.Code); err != nil {
			log.Printf("Failed to record preferred region: %v", err)
		}
	}

	if s.onPass != nil {
		s.onPass(results, fastest)
	}
}
