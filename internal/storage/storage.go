package storage

import (
	"context"

	"bamroute/internal/storage/models"
)

// Well-known setting keys.
const (
	KeyPreferredRegion = "preferred_region"
	KeyProbeCount      = "probe_count"
	KeyProbeTimeout    = "probe_timeout_ms"
	KeyProbeStrategy   = "probe_strategy"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Submission log
	RecordSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmissionHistory(ctx context.Context, limit int) ([]*models.Submission, error)

	// Settings operations
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetAllSettings(ctx context.Context) (map[string]string, error)

	Close() error
}
