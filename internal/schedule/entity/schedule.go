package entity

import "time"

// Schedule source tags. The set is open; these are the values this module
// writes itself.
const (
	SourceManual   = "manual"
	SourceEmail    = "email"
	SourceImported = "imported"
)

// Schedule is a game or meeting, optionally tied to a recruit. Master rows
// are canonical entries; non-master rows are derived from them. Dates and
// times stay text because imported calendars arrive in several formats that
// must round-trip unchanged.
type Schedule struct {
	ID               int64     `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	RecruitID        *int64    `db:"recruit_id" json:"recruit_id,omitempty"`
	RecruitEmail     *string   `db:"recruit_email" json:"recruit_email,omitempty"`
	HomeTeam         *string   `db:"home_team" json:"home_team,omitempty"`
	AwayTeam         *string   `db:"away_team" json:"away_team,omitempty"`
	HomeParticipants *string   `db:"home_participants" json:"home_participants,omitempty"`
	AwayParticipants *string   `db:"away_participants" json:"away_participants,omitempty"`
	EventName        *string   `db:"event_name" json:"event_name,omitempty"`
	IsMaster         bool      `db:"is_master" json:"is_master"`
	Source           string    `db:"source" json:"source"`
	Date             string    `db:"date" json:"date"`
	Time             *string   `db:"time" json:"time,omitempty"`
	Location         *string   `db:"location" json:"location,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// WithRecruit pairs a schedule with the owning recruit's display fields for
// list views.
type WithRecruit struct {
	Schedule
	FirstName    *string `db:"first_name" json:"first_name,omitempty"`
	LastName     *string `db:"last_name" json:"last_name,omitempty"`
	EmailAddress *string `db:"email_address" json:"email_address,omitempty"`
	GradYear     *string `db:"grad_year" json:"grad_year,omitempty"`
}

// Match narrows FindMatching; zero-valued fields are ignored.
type Match struct {
	Date      string
	EventName string
	HomeTeam  string
	AwayTeam  string
	UserID    string
}

// Stats summarizes a user's schedules.
type Stats struct {
	TotalSchedules     int64            `db:"total_schedules" json:"total_schedules"`
	DistinctDates      int64            `db:"distinct_dates" json:"distinct_dates"`
	DistinctRecruits   int64            `db:"distinct_recruits" json:"distinct_recruits"`
	EarliestDate       *string          `db:"earliest_date" json:"earliest_date,omitempty"`
	LatestDate         *string          `db:"latest_date" json:"latest_date,omitempty"`
	SourceDistribution map[string]int64 `json:"source_distribution"`
}
