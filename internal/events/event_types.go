package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDatasetLoaded   EventType = "dataset_loaded"
	EventDatasetRejected EventType = "dataset_rejected"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	DatasetID string    `json:"dataset_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// DatasetLoadedPayload describes a dataset that replaced the previous one.
type DatasetLoadedPayload struct {
	PreviousID string `json:"previous_id,omitempty"`
	Filename   string `json:"filename"`
	RowsRead   int    `json:"rows_read"`
	Records    int    `json:"records"`
	Skipped    int    `json:"skipped"`
	Excluded   int    `json:"excluded"`
	FromMonth  string `json:"from_month"`
	ToMonth    string `json:"to_month"`
}

// DatasetRejectedPayload describes an upload that left the dataset unchanged.
type DatasetRejectedPayload struct {
	Filename string `json:"filename"`
	RowsRead int    `json:"rows_read"`
	Skipped  int    `json:"skipped"`
	Reason   string `json:"reason"`
}
