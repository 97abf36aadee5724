package models

import "time"

// Submission records one transaction submission attempt sequence.
type Submission struct {
	ID        int64     `json:"id"`
	Region    string    `json:"region"`
	Endpoint  string    `json:"endpoint"`
	Encoding  string    `json:"encoding"`
	Attempts  int       `json:"attempts"`
	Success   bool      `json:"success"`
	Signature string    `json:"signature,omitempty"`
	Error     string    `json:"error,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}
