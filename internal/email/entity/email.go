package entity

import "time"

// Email is an ingested message scoped to a user, uniquely identified by the
// provider's message id. Raw fields (sender, body, received date) live next
// to derived fields (summary, highlights, extracted profile/schedule
// payloads); processed/processed_date track pipeline state.
type Email struct {
	ID             int64      `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	RecruitEmail   *string    `db:"recruit_email" json:"recruit_email,omitempty"`
	EmailID        string     `db:"email_id" json:"email_id"`
	Date           *string    `db:"date" json:"date,omitempty"`
	Subject        *string    `db:"subject" json:"subject,omitempty"`
	Summary        *string    `db:"summary" json:"summary,omitempty"`
	Highlights     *string    `db:"highlights" json:"highlights,omitempty"`
	Profile        *string    `db:"profile" json:"profile,omitempty"`
	Schedule       *string    `db:"schedule" json:"schedule,omitempty"`
	FolderID       *string    `db:"folder_id" json:"folder_id,omitempty"`
	Sender         *string    `db:"sender" json:"sender,omitempty"`
	ReceivedDate   *time.Time `db:"received_date" json:"received_date,omitempty"`
	IsRead         int        `db:"is_read" json:"is_read"`
	HasAttachments int        `db:"has_attachments" json:"has_attachments"`
	Body           *string    `db:"body" json:"body,omitempty"`
	ImportDate     *time.Time `db:"import_date" json:"import_date,omitempty"`
	Processed      int        `db:"processed" json:"processed"`
	ProcessedDate  *time.Time `db:"processed_date" json:"processed_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Stats summarizes a user's mailbox ingestion.
type Stats struct {
	TotalEmails           int64            `db:"total_emails" json:"total_emails"`
	ProcessedEmails       int64            `db:"processed_emails" json:"processed_emails"`
	EmailsWithAttachments int64            `db:"emails_with_attachments" json:"emails_with_attachments"`
	EarliestDate          *time.Time       `db:"earliest_date" json:"earliest_date,omitempty"`
	LatestDate            *time.Time       `db:"latest_date" json:"latest_date,omitempty"`
	FolderDistribution    map[string]int64 `json:"folder_distribution"`
}
