package entity

import "time"

// Queue statuses written by this module. The vocabulary is an open string
// set; callers may introduce further values and the storage layer will not
// reject them.
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// IsTerminalStatus reports whether a status stamps processed_at when set.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// QueueEntry is one unit of work: fetch-and-process one provider message
// for one user. email_id is the provider's message identifier, not a
// foreign key into emails, so entries can be queued before ingestion.
type QueueEntry struct {
	ID           int64      `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"user_id"`
	EmailID      string     `db:"email_id" json:"email_id"`
	Provider     string     `db:"provider" json:"provider"`
	FolderID     string     `db:"folder_id" json:"folder_id"`
	Status       string     `db:"status" json:"status"`
	Priority     int        `db:"priority" json:"priority"`
	ProcessedAt  *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ClaimedBatch is the result of atomically claiming queued entries for a
// worker. The claim id only identifies the batch in logs; it is not
// persisted.
type ClaimedBatch struct {
	ClaimID string       `json:"claim_id"`
	Entries []QueueEntry `json:"entries"`
}
