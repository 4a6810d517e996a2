package team

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/team/entity"
	teamrepo "github.com/scoutline/recruiting-data/internal/team/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// NormalizeName produces the lookup form of a team name: lowercase,
// spaces and hyphens folded to underscores, periods removed.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

// Service encapsulates team catalog and alias operations.
type Service struct {
	db      *sqlx.DB
	teams   *teamrepo.TeamRepo
	aliases *teamrepo.AliasRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:      db,
		teams:   teamrepo.NewTeamRepo(db),
		aliases: teamrepo.NewAliasRepo(db),
	}
}

// Create registers a team, deriving the normalized name when the caller
// left it empty.
func (s *Service) Create(ctx context.Context, t *entity.Team) error {
	if t.NormalizedName == "" {
		t.NormalizedName = NormalizeName(t.Name)
	}
	return s.teams.Create(ctx, t)
}

// Get returns one team or database.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Team, error) {
	return s.teams.GetByID(ctx, id)
}

// GetByName looks a team up by its canonical name.
func (s *Service) GetByName(ctx context.Context, name string) (*entity.Team, error) {
	return s.teams.GetByName(ctx, name)
}

// GetOrCreate returns the team with the given canonical name, creating it
// when absent. A concurrent insert losing the race falls back to reading
// the winner's row.
func (s *Service) GetOrCreate(ctx context.Context, name string) (*entity.Team, error) {
	t, err := s.teams.GetByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	created := &entity.Team{Name: name, NormalizedName: NormalizeName(name)}
	if err := s.teams.Create(ctx, created); err != nil {
		if database.IsUniqueViolation(err) {
			return s.teams.GetByName(ctx, name)
		}
		return nil, err
	}
	return created, nil
}

// ResolveName finds the team a raw name refers to, trying the canonical
// name, then the normalized form, then the alias table.
func (s *Service) ResolveName(ctx context.Context, name string) (*entity.Team, error) {
	t, err := s.teams.GetByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	t, err = s.teams.GetByNormalizedName(ctx, NormalizeName(name))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	return s.teams.FindByAlias(ctx, name)
}

// GetWithAliases returns a team plus its known alternate spellings.
func (s *Service) GetWithAliases(ctx context.Context, id int64) (*entity.WithAliases, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	aliases, err := s.aliases.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.WithAliases{Team: t, Aliases: aliases}, nil
}

// AddAlias records an alternate spelling for a team. Re-adding a spelling
// the team already owns is a no-op; a spelling owned by another team
// surfaces as database.ErrUniqueViolation.
func (s *Service) AddAlias(ctx context.Context, teamID int64, alias, source string) (*entity.Alias, error) {
	a := &entity.Alias{TeamID: teamID, Alias: alias}
	if source != "" {
		a.Source = &source
	}
	if err := s.aliases.Create(ctx, a); err != nil {
		if database.IsUniqueViolation(err) {
			existing, getErr := s.aliases.GetByAlias(ctx, alias)
			if getErr == nil && existing.TeamID == teamID {
				return existing, nil
			}
		}
		return nil, err
	}
	return a, nil
}

// BulkAddAliases records many spellings for a team, skipping collisions.
// It returns the aliases actually created.
func (s *Service) BulkAddAliases(ctx context.Context, teamID int64, aliases []string, source string) ([]entity.Alias, error) {
	created := make([]entity.Alias, 0, len(aliases))
	for _, raw := range aliases {
		a := &entity.Alias{TeamID: teamID, Alias: raw}
		if source != "" {
			src := source
			a.Source = &src
		}
		if err := s.aliases.Create(ctx, a); err != nil {
			if database.IsUniqueViolation(err) {
				continue
			}
			return created, err
		}
		created = append(created, *a)
	}
	return created, nil
}

// AliasesByTeam returns a team's aliases.
func (s *Service) AliasesByTeam(ctx context.Context, teamID int64) ([]entity.Alias, error) {
	return s.aliases.ListByTeam(ctx, teamID)
}

// AliasesBySource returns aliases recorded from one source.
func (s *Service) AliasesBySource(ctx context.Context, source string) ([]entity.Alias, error) {
	return s.aliases.ListBySource(ctx, source)
}

// DeleteAlias removes one alias.
func (s *Service) DeleteAlias(ctx context.Context, id int64) error {
	deleted, err := s.aliases.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// List returns a page of teams in name order.
func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.Team, error) {
	return s.teams.List(ctx, limit, offset)
}

// Search matches a term against team names.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]entity.Team, error) {
	return s.teams.Search(ctx, term, limit)
}

// Update rewrites a team, re-deriving the normalized name when the
// canonical name changed and the caller left the normalized form empty.
func (s *Service) Update(ctx context.Context, t *entity.Team) error {
	if t.NormalizedName == "" {
		t.NormalizedName = NormalizeName(t.Name)
	}
	return s.teams.Update(ctx, t)
}

// Delete removes one team; its aliases cascade in the database.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.teams.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// Stats aggregates catalog totals and distributions.
func (s *Service) Stats(ctx context.Context) (*entity.Stats, error) {
	return s.teams.Stats(ctx)
}
