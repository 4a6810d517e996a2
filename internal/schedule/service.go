package schedule

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/schedule/entity"
	schedulerepo "github.com/scoutline/recruiting-data/internal/schedule/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Service encapsulates schedule operations.
type Service struct {
	repo *schedulerepo.ScheduleRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: schedulerepo.NewScheduleRepo(db)}
}

// Create inserts a schedule; source defaults to manual.
func (s *Service) Create(ctx context.Context, sc *entity.Schedule) error {
	return s.repo.Create(ctx, sc)
}

// CreateFromEmail builds a schedule from extracted email data. Participant
// lists arrive as slices and are stored as JSON text, matching what list
// consumers decode.
func (s *Service) CreateFromEmail(ctx context.Context, sc *entity.Schedule, homeParticipants, awayParticipants []string) error {
	if len(homeParticipants) > 0 {
		raw, err := json.Marshal(homeParticipants)
		if err != nil {
			return err
		}
		v := string(raw)
		sc.HomeParticipants = &v
	}
	if len(awayParticipants) > 0 {
		raw, err := json.Marshal(awayParticipants)
		if err != nil {
			return err
		}
		v := string(raw)
		sc.AwayParticipants = &v
	}
	sc.Source = entity.SourceEmail
	return s.repo.Create(ctx, sc)
}

// Get returns one schedule or database.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser returns a page of a user's schedules, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Schedule, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListByRecruit returns a page of a recruit's schedules, newest first.
func (s *Service) ListByRecruit(ctx context.Context, recruitID int64, limit, offset int) ([]entity.Schedule, error) {
	return s.repo.ListByRecruit(ctx, recruitID, limit, offset)
}

// ListByDateRange returns schedules between two dates inclusive.
func (s *Service) ListByDateRange(ctx context.Context, userID, start, end string) ([]entity.Schedule, error) {
	return s.repo.ListByDateRange(ctx, userID, start, end)
}

// Upcoming returns schedules from today through the next `days` days.
func (s *Service) Upcoming(ctx context.Context, userID string, days int) ([]entity.Schedule, error) {
	today := time.Now().Format("2006-01-02")
	end := time.Now().AddDate(0, 0, days).Format("2006-01-02")
	return s.repo.ListByDateRange(ctx, userID, today, end)
}

// ListWithRecruits returns schedules joined with recruit display fields.
func (s *Service) ListWithRecruits(ctx context.Context, userID string, limit int) ([]entity.WithRecruit, error) {
	return s.repo.ListWithRecruits(ctx, userID, limit)
}

// FindMatching returns the first schedule matching the non-empty fields of
// m, or database.ErrNotFound.
func (s *Service) FindMatching(ctx context.Context, m entity.Match) (*entity.Schedule, error) {
	return s.repo.FindMatching(ctx, m)
}

// Update rewrites a schedule; missing id yields database.ErrNotFound.
func (s *Service) Update(ctx context.Context, sc *entity.Schedule) error {
	return s.repo.Update(ctx, sc)
}

// AssociateRecruit links a schedule to a recruit.
func (s *Service) AssociateRecruit(ctx context.Context, scheduleID, recruitID int64) (*entity.Schedule, error) {
	return s.repo.AssociateRecruit(ctx, scheduleID, recruitID)
}

// Delete removes one schedule.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// DeleteByRecruit removes a recruit's schedules, returning the count.
func (s *Service) DeleteByRecruit(ctx context.Context, recruitID int64) (int64, error) {
	return s.repo.DeleteByRecruit(ctx, recruitID)
}

// CountBySource groups a user's schedules by source tag.
func (s *Service) CountBySource(ctx context.Context, userID string) (map[string]int64, error) {
	return s.repo.CountBySource(ctx, userID)
}

// StatsByUser aggregates schedule statistics for one user.
func (s *Service) StatsByUser(ctx context.Context, userID string) (*entity.Stats, error) {
	return s.repo.StatsByUser(ctx, userID)
}
