package recruit

import (
	"context"

	"github.com/jmoiron/sqlx"

	recruitentity "github.com/scoutline/recruiting-data/internal/recruit/entity"
	recruitrepo "github.com/scoutline/recruiting-data/internal/recruit/repo"
	scheduleentity "github.com/scoutline/recruiting-data/internal/schedule/entity"
	schedulerepo "github.com/scoutline/recruiting-data/internal/schedule/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Service encapsulates recruit operations, including the cross-table
// lookups and the manual cascade used before the schema-level cascade was
// trusted for partial cleanups.
type Service struct {
	db        *sqlx.DB
	recruits  *recruitrepo.RecruitRepo
	schedules *schedulerepo.ScheduleRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:        db,
		recruits:  recruitrepo.NewRecruitRepo(db),
		schedules: schedulerepo.NewScheduleRepo(db),
	}
}

// Create inserts a recruit owned by a user.
func (s *Service) Create(ctx context.Context, rec *recruitentity.Recruit) error {
	return s.recruits.Create(ctx, rec)
}

// Get returns one recruit or database.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*recruitentity.Recruit, error) {
	return s.recruits.GetByID(ctx, id)
}

// GetByEmail looks up a recruit by email, optionally user-scoped.
func (s *Service) GetByEmail(ctx context.Context, email, userID string) (*recruitentity.Recruit, error) {
	return s.recruits.GetByEmail(ctx, email, userID)
}

// ListByUser returns a page of a user's recruits.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]recruitentity.Recruit, error) {
	return s.recruits.ListByUser(ctx, userID, limit, offset)
}

// Search matches recruits by name or email.
func (s *Service) Search(ctx context.Context, userID, term string, limit int) ([]recruitentity.Recruit, error) {
	return s.recruits.Search(ctx, userID, term, limit)
}

// ListByGradYear filters by graduation year.
func (s *Service) ListByGradYear(ctx context.Context, userID, gradYear string) ([]recruitentity.Recruit, error) {
	return s.recruits.ListByGradYear(ctx, userID, gradYear)
}

// Update rewrites a recruit's fields; missing id yields database.ErrNotFound.
func (s *Service) Update(ctx context.Context, rec *recruitentity.Recruit) error {
	return s.recruits.Update(ctx, rec)
}

// UpdateEvaluation records a new rating and evaluation.
func (s *Service) UpdateEvaluation(ctx context.Context, id int64, rating, evaluation string) (*recruitentity.Recruit, error) {
	return s.recruits.UpdateEvaluation(ctx, id, rating, evaluation)
}

// GetWithSchedules returns a recruit together with its schedules, newest
// event first.
func (s *Service) GetWithSchedules(ctx context.Context, id int64) (*recruitentity.Recruit, []scheduleentity.Schedule, error) {
	rec, err := s.recruits.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	scheds, err := s.schedules.ListByRecruit(ctx, id, 100, 0)
	if err != nil {
		return nil, nil, err
	}
	return rec, scheds, nil
}

// StatsByUser aggregates pipeline statistics for one user.
func (s *Service) StatsByUser(ctx context.Context, userID string) (*recruitentity.Stats, error) {
	return s.recruits.StatsByUser(ctx, userID)
}

// Delete removes a recruit, relying on the schema's cascades for dependent
// rows. Returns database.ErrNotFound when the id does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.recruits.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// DeleteCascade removes a recruit and its dependent rows with explicit
// statements in one transaction: feedback, then schedules, then the recruit
// itself. All-or-nothing; any failure rolls the whole cleanup back.
func (s *Service) DeleteCascade(ctx context.Context, id int64) error {
	if _, err := s.recruits.GetByID(ctx, id); err != nil {
		return err
	}
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM extraction_feedback WHERE recruit_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE recruit_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recruits WHERE id = $1`, id); err != nil {
			return err
		}
		return nil
	})
}
