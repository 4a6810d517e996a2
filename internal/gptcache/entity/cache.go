package entity

import (
	"encoding/json"
	"time"
)

// Entry is one cached model result keyed by a content hash of the input
// text. email optionally records which sender the content came from.
type Entry struct {
	ID          int64           `db:"id" json:"id"`
	ContentHash string          `db:"content_hash" json:"content_hash"`
	Email       *string         `db:"email" json:"email,omitempty"`
	ResultJSON  json.RawMessage `db:"result_json" json:"result_json"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Stats summarizes the cache.
type Stats struct {
	TotalEntries int64      `db:"total_entries" json:"total_entries"`
	OldestEntry  *time.Time `db:"oldest_entry" json:"oldest_entry,omitempty"`
	NewestEntry  *time.Time `db:"newest_entry" json:"newest_entry,omitempty"`
}
