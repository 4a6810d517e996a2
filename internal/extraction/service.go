package extraction

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/extraction/entity"
	extractionrepo "github.com/scoutline/recruiting-data/internal/extraction/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Service encapsulates extraction feedback and pattern operations.
type Service struct {
	feedback *extractionrepo.FeedbackRepo
	patterns *extractionrepo.PatternRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		feedback: extractionrepo.NewFeedbackRepo(db),
		patterns: extractionrepo.NewPatternRepo(db),
	}
}

// RecordFeedback stores one correction. A recruit or user that no longer
// exists surfaces as database.ErrForeignKeyViolation.
func (s *Service) RecordFeedback(ctx context.Context, f *entity.Feedback) error {
	return s.feedback.Create(ctx, f)
}

// GetFeedback returns one feedback row or database.ErrNotFound.
func (s *Service) GetFeedback(ctx context.Context, id int64) (*entity.Feedback, error) {
	return s.feedback.GetByID(ctx, id)
}

// GetFeedbackWithRecruit returns one feedback row joined with the
// corrected recruit's display fields.
func (s *Service) GetFeedbackWithRecruit(ctx context.Context, id int64) (*entity.FeedbackWithRecruit, error) {
	return s.feedback.GetWithRecruit(ctx, id)
}

// FeedbackByEmail returns feedback on one provider message, newest first.
func (s *Service) FeedbackByEmail(ctx context.Context, emailID string) ([]entity.Feedback, error) {
	return s.feedback.ListByEmail(ctx, emailID)
}

// FeedbackByRecruit returns feedback on one recruit, newest first.
func (s *Service) FeedbackByRecruit(ctx context.Context, recruitID int64) ([]entity.Feedback, error) {
	return s.feedback.ListByRecruit(ctx, recruitID)
}

// FeedbackByUser returns a page of a user's feedback, newest first.
func (s *Service) FeedbackByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Feedback, error) {
	return s.feedback.ListByUser(ctx, userID, limit, offset)
}

// DeleteFeedback removes one feedback row.
func (s *Service) DeleteFeedback(ctx context.Context, id int64) error {
	deleted, err := s.feedback.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// FeedbackStats aggregates a user's feedback history.
func (s *Service) FeedbackStats(ctx context.Context, userID string) (*entity.Stats, error) {
	return s.feedback.StatsByUser(ctx, userID)
}

// CreatePattern registers an extraction rule.
func (s *Service) CreatePattern(ctx context.Context, p *entity.Pattern) error {
	return s.patterns.Create(ctx, p)
}

// GetPattern returns one pattern or database.ErrNotFound.
func (s *Service) GetPattern(ctx context.Context, id int64) (*entity.Pattern, error) {
	return s.patterns.GetByID(ctx, id)
}

// ActivePatterns returns active patterns in match order.
func (s *Service) ActivePatterns(ctx context.Context) ([]entity.Pattern, error) {
	return s.patterns.ListActive(ctx)
}

// PatternsByField returns every pattern for one field.
func (s *Service) PatternsByField(ctx context.Context, fieldName string) ([]entity.Pattern, error) {
	return s.patterns.ListByField(ctx, fieldName)
}

// UpdatePattern rewrites a pattern.
func (s *Service) UpdatePattern(ctx context.Context, p *entity.Pattern) error {
	return s.patterns.Update(ctx, p)
}

// TogglePattern flips a pattern's active flag.
func (s *Service) TogglePattern(ctx context.Context, id int64) (*entity.Pattern, error) {
	return s.patterns.ToggleActive(ctx, id)
}

// DeletePattern removes one pattern.
func (s *Service) DeletePattern(ctx context.Context, id int64) error {
	deleted, err := s.patterns.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}
