package entity

import "time"

// Team is a club or program name resolved from schedule and email text.
// name is the canonical spelling; normalized_name is the lookup form
// produced by NormalizeName.
type Team struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	NormalizedName string    `db:"normalized_name" json:"normalized_name"`
	BirthYear      *string   `db:"birth_year" json:"birth_year,omitempty"`
	Gender         *string   `db:"gender" json:"gender,omitempty"`
	AgeGroup       *string   `db:"age_group" json:"age_group,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Alias is an alternate spelling pointing at a team. The alias text is
// globally unique; source records where the spelling was seen.
type Alias struct {
	ID        int64     `db:"id" json:"id"`
	TeamID    int64     `db:"team_id" json:"team_id"`
	Alias     string    `db:"alias" json:"alias"`
	Source    *string   `db:"source" json:"source,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WithAliases pairs a team with its known alternate spellings.
type WithAliases struct {
	Team    *Team   `json:"team"`
	Aliases []Alias `json:"aliases"`
}

// Stats summarizes the team catalog.
type Stats struct {
	TotalTeams         int64            `db:"total_teams" json:"total_teams"`
	TotalAliases       int64            `db:"total_aliases" json:"total_aliases"`
	GenderDistribution map[string]int64 `json:"gender_distribution"`
	AgeDistribution    map[string]int64 `json:"age_distribution"`
}
