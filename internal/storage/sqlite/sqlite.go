package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"bamroute/internal/storage/models"
)

// DB implements the Storage interface using SQLite
type DB struct {
	db *sql.DB
}

// New creates a new SQLite storage instance
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	storage := &DB{db: db}

	if err := runMigrations(storage); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordSubmission appends one submission record to the log.
func (d *DB) RecordSubmission(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (region, endpoint, encoding, attempts, success, signature, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.db.ExecContext(ctx, query,
		sub.Region, sub.Endpoint, sub.Encoding, sub.Attempts, sub.Success, sub.Signature, sub.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

// GetSubmissionHistory returns the most recent submissions, newest first.
func (d *DB) GetSubmissionHistory(ctx context.Context, limit int) ([]*models.Submission, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, region, endpoint, encoding, attempts, success,
		       COALESCE(signature, ''), COALESCE(error, ''), sent_at
		FROM submissions
		ORDER BY sent_at DESC, id DESC
		LIMIT ?
	`
	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		sub := &models.Submission{}
		if err := rows.Scan(&sub.ID, &sub.Region, &sub.Endpoint, &sub.Encoding,
			&sub.Attempts, &sub.Success, &sub.Signature, &sub.Error, &sub.SentAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// GetSetting returns the value for a settings key.
func (d *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting not found: %s", key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting upserts a settings key.
func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	_, err := d.db.ExecContext(ctx, query, key, value)
	return err
}

// GetAllSettings returns every settings key-value pair.
func (d *DB) GetAllSettings(ctx context.Context) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
