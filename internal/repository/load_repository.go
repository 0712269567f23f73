package repository

import (
	"context"
	"time"
)

// LoadStatus records whether an uploaded export replaced the dataset.
type LoadStatus string

const (
	LoadAccepted LoadStatus = "accepted"
	LoadRejected LoadStatus = "rejected"
)

// LoadEntry is one row of the upload history.
type LoadEntry struct {
	ID        string     `json:"id"`
	Filename  string     `json:"filename"`
	Status    LoadStatus `json:"status"`
	RowsRead  int        `json:"rows_read"`
	Records   int        `json:"records"`
	Skipped   int        `json:"skipped"`
	Excluded  int        `json:"excluded"`
	FromMonth string     `json:"from_month,omitempty"`
	ToMonth   string     `json:"to_month,omitempty"`
	Error     string     `json:"error,omitempty"`
	LoadedBy  string     `json:"loaded_by,omitempty"`
	LoadedAt  time.Time  `json:"loaded_at"`
}

// LoadRepository persists upload history.
type LoadRepository interface {
	Create(ctx context.Context, entry *LoadEntry) error
	ListRecent(ctx context.Context, limit int) ([]LoadEntry, error)
}

const defaultListLimit = 20

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}
