package entity

import (
	"encoding/json"
	"time"
)

// Configuration describes one scraping target. parameters is free-form
// JSONB (selectors, URLs, schedules) interpreted by the scraper runtime.
type Configuration struct {
	ID         int64           `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Source     string          `db:"source" json:"source"`
	Active     bool            `db:"active" json:"active"`
	Parameters json.RawMessage `db:"parameters" json:"parameters"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Log records one scraper run against a configuration. end_time and
// duration_seconds stay NULL until the run finishes.
type Log struct {
	ID              int64           `db:"id" json:"id"`
	ConfigID        int64           `db:"config_id" json:"config_id"`
	StartTime       time.Time       `db:"start_time" json:"start_time"`
	EndTime         *time.Time      `db:"end_time" json:"end_time,omitempty"`
	DurationSeconds *int            `db:"duration_seconds" json:"duration_seconds,omitempty"`
	TotalMatches    int             `db:"total_matches" json:"total_matches"`
	NewMatches      int             `db:"new_matches" json:"new_matches"`
	Results         json.RawMessage `db:"results" json:"results,omitempty"`
	Error           *string         `db:"error" json:"error,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// WithLatestLog pairs a configuration with its most recent run, if any.
type WithLatestLog struct {
	Configuration *Configuration `json:"configuration"`
	LatestLog     *Log           `json:"latest_log,omitempty"`
}

// Stats summarizes run history for one configuration.
type Stats struct {
	TotalRuns       int64    `db:"total_runs" json:"total_runs"`
	FailedRuns      int64    `db:"failed_runs" json:"failed_runs"`
	TotalMatches    int64    `db:"total_matches" json:"total_matches"`
	TotalNewMatches int64    `db:"total_new_matches" json:"total_new_matches"`
	AvgDuration     *float64 `db:"avg_duration" json:"avg_duration,omitempty"`
}
