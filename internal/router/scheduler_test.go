package router_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bamroute/internal/regions"
	"bamroute/internal/router"
	"bamroute/internal/storage"
	"bamroute/internal/storage/models"
)

// memStorage is an in-memory Storage for scheduler tests.
type memStorage struct {
	mu          sync.Mutex
	settings    map[string]string
	submissions []*models.Submission
}

func newMemStorage() *memStorage {
	return &memStorage{settings: make(map[string]string)}
}

func (m *memStorage) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, sub)
	return nil
}

func (m *memStorage) GetSubmissionHistory(ctx context.Context, limit int) ([]*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submissions, nil
}

func (m *memStorage) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.settings[key]
	if !ok {
		return "", errors.New("setting not found: " + key)
	}
	return val, nil
}

func (m *memStorage) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *memStorage) GetAllSettings(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make(map[string]string, len(m.settings))
	for k, v := range m.settings {
		all[k] = v
	}
	return all, nil
}

func (m *memStorage) Close() error { return nil }

func TestSchedulerRecordsPreferredRegion(t *testing.T) {
	// a unreachable, b 80ms, c 40ms -> c is the preferred region.
	strategy := &fakeStrategy{latencies: map[string]float64{
		"http://b.example.com": 80,
		"http://c.example.com": 40,
	}}
	store := newMemStorage()

	passed := make(chan regions.Region, 1)
	sched, err := router.NewScheduler(testRouter(strategy), store, time.Hour,
		func(results []router.RegionResult, fastest regions.Region) {
			if len(results) != len(testTable) {
				t.Errorf("pass saw %d results, want %d", len(results), len(testTable))
			}
			select {
			case passed <- fastest:
			default:
			}
		})
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sched.Stop()

	// The first pass runs immediately on Start.
	select {
	case fastest := <-passed:
		if fastest.Code != "c" {
			t.Errorf("pass reported fastest %q, want c", fastest.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler never completed its first pass")
	}

	val, err := store.GetSetting(context.Background(), storage.KeyPreferredRegion)
	if err != nil {
		t.Fatalf("preferred region was not recorded: %v", err)
	}
	if val != "c" {
		t.Errorf("preferred region = %q, want c", val)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	strategy := &fakeStrategy{latencies: map[string]float64{"http://a.example.com": 10}}

	sched, err := router.NewScheduler(testRouter(strategy), newMemStorage(), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	if sched.IsRunning() {
		t.Error("scheduler should not be running before Start")
	}
	if err := sched.Stop(); err == nil {
		t.Error("Stop before Start should fail")
	}

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Error("scheduler should be running after Start")
	}
	if err := sched.Start(context.Background()); err == nil {
		t.Error("second Start should fail while running")
	}

	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if sched.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}
}
