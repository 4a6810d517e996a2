package entity

import (
	"encoding/json"
	"time"
)

// Feedback records a correction a user made to machine-extracted recruit
// data. original_extraction and corrected_values are stored as JSONB so
// the field vocabulary can evolve without schema changes.
type Feedback struct {
	ID                 int64           `db:"id" json:"id"`
	UserID             string          `db:"user_id" json:"user_id"`
	EmailID            string          `db:"email_id" json:"email_id"`
	RecruitID          int64           `db:"recruit_id" json:"recruit_id"`
	OriginalText       *string         `db:"original_text" json:"original_text,omitempty"`
	OriginalExtraction json.RawMessage `db:"original_extraction" json:"original_extraction"`
	CorrectedValues    json.RawMessage `db:"corrected_values" json:"corrected_values"`
	Notes              *string         `db:"notes" json:"notes,omitempty"`
	UsedCache          bool            `db:"used_cache" json:"used_cache"`
	ModelUsed          *string         `db:"model_used" json:"model_used,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// FeedbackWithRecruit joins a feedback row with the recruit it corrects.
type FeedbackWithRecruit struct {
	Feedback
	RecruitFirstName *string `db:"recruit_first_name" json:"recruit_first_name,omitempty"`
	RecruitLastName  *string `db:"recruit_last_name" json:"recruit_last_name,omitempty"`
	RecruitEmail     *string `db:"recruit_email_address" json:"recruit_email_address,omitempty"`
}

// Pattern is a reusable extraction rule for one recruit field. Higher
// priority patterns are tried first.
type Pattern struct {
	ID          int64     `db:"id" json:"id"`
	FieldName   string    `db:"field_name" json:"field_name"`
	Pattern     string    `db:"pattern" json:"pattern"`
	Description *string   `db:"description" json:"description,omitempty"`
	Priority    int       `db:"priority" json:"priority"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Stats summarizes a user's feedback history.
type Stats struct {
	TotalFeedback     int64            `db:"total_feedback" json:"total_feedback"`
	CacheHits         int64            `db:"cache_hits" json:"cache_hits"`
	DistinctRecruits  int64            `db:"distinct_recruits" json:"distinct_recruits"`
	ModelDistribution map[string]int64 `json:"model_distribution"`
}
