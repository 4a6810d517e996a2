package entity

import "time"

// Recruit is a prospective contact scoped to one user. The email address is
// globally unique. Majors, positions and clubs hold delimited or JSON text
// exactly as submitted; grad_year, gpa and rating are bounded text so the
// submitted string forms round-trip unchanged.
type Recruit struct {
	ID                 int64      `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"user_id"`
	FirstName          *string    `db:"first_name" json:"first_name,omitempty"`
	LastName           *string    `db:"last_name" json:"last_name,omitempty"`
	EmailAddress       *string    `db:"email_address" json:"email_address,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	GradYear           *string    `db:"grad_year" json:"grad_year,omitempty"`
	State              *string    `db:"state" json:"state,omitempty"`
	GPA                *string    `db:"gpa" json:"gpa,omitempty"`
	Majors             *string    `db:"majors" json:"majors,omitempty"`
	Positions          *string    `db:"positions" json:"positions,omitempty"`
	Clubs              *string    `db:"clubs" json:"clubs,omitempty"`
	CoachName          *string    `db:"coach_name" json:"coach_name,omitempty"`
	CoachPhone         *string    `db:"coach_phone" json:"coach_phone,omitempty"`
	CoachEmail         *string    `db:"coach_email" json:"coach_email,omitempty"`
	Rating             *string    `db:"rating" json:"rating,omitempty"`
	Evaluation         *string    `db:"evaluation" json:"evaluation,omitempty"`
	LastEvaluationDate *time.Time `db:"last_evaluation_date" json:"last_evaluation_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Stats summarizes a user's recruit pipeline.
type Stats struct {
	TotalRecruits        int64            `db:"total_recruits" json:"total_recruits"`
	RatedRecruits        int64            `db:"rated_recruits" json:"rated_recruits"`
	DistinctGradYears    int64            `db:"distinct_grad_years" json:"distinct_grad_years"`
	GradYearDistribution map[string]int64 `json:"grad_year_distribution"`
}
