package email

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/email/entity"
	emailrepo "github.com/scoutline/recruiting-data/internal/email/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
	"github.com/scoutline/recruiting-data/pkg/utilities"
)

// Service encapsulates email ingestion and queue operations.
type Service struct {
	db     *sqlx.DB
	emails *emailrepo.EmailRepo
	queue  *emailrepo.QueueRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:     db,
		emails: emailrepo.NewEmailRepo(db),
		queue:  emailrepo.NewQueueRepo(db),
	}
}

// Ingest stores a fetched message. The provider email_id is unique; a
// repeat fetch of the same message surfaces database.ErrUniqueViolation.
func (s *Service) Ingest(ctx context.Context, e *entity.Email) error {
	if e.ImportDate == nil {
		now := time.Now()
		e.ImportDate = &now
	}
	return s.emails.Create(ctx, e)
}

// Get returns one email or database.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Email, error) {
	return s.emails.GetByID(ctx, id)
}

// GetByEmailID looks up a message by provider identifier; empty userID
// searches across users.
func (s *Service) GetByEmailID(ctx context.Context, emailID, userID string) (*entity.Email, error) {
	return s.emails.GetByEmailID(ctx, emailID, userID)
}

// ListByUser returns a page of a user's messages, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Email, error) {
	return s.emails.ListByUser(ctx, userID, limit, offset)
}

// Search matches a term against subject, body and sender.
func (s *Service) Search(ctx context.Context, userID, term string, limit int) ([]entity.Email, error) {
	return s.emails.Search(ctx, userID, term, limit)
}

// ListUnprocessed returns messages awaiting extraction, oldest first.
func (s *Service) ListUnprocessed(ctx context.Context, userID string, limit int) ([]entity.Email, error) {
	return s.emails.ListUnprocessed(ctx, userID, limit)
}

// MarkProcessed flips the extraction flag on one message.
func (s *Service) MarkProcessed(ctx context.Context, id int64, processed bool) (*entity.Email, error) {
	return s.emails.MarkProcessed(ctx, id, processed)
}

// Update rewrites a message's mutable columns.
func (s *Service) Update(ctx context.Context, e *entity.Email) error {
	return s.emails.Update(ctx, e)
}

// Delete removes one message; extraction feedback rows cascade in the
// database.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.emails.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// StatsByUser aggregates mailbox statistics for one user.
func (s *Service) StatsByUser(ctx context.Context, userID string) (*entity.Stats, error) {
	return s.emails.StatsByUser(ctx, userID)
}

// FeedbackSummary is an extraction feedback row attached to an email,
// with the linked recruit's display name.
type FeedbackSummary struct {
	ID                 int64           `db:"id" json:"id"`
	RecruitID          int64           `db:"recruit_id" json:"recruit_id"`
	OriginalExtraction json.RawMessage `db:"original_extraction" json:"original_extraction"`
	CorrectedValues    json.RawMessage `db:"corrected_values" json:"corrected_values"`
	Notes              *string         `db:"notes" json:"notes,omitempty"`
	UsedCache          bool            `db:"used_cache" json:"used_cache"`
	ModelUsed          *string         `db:"model_used" json:"model_used,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	RecruitFirstName   *string         `db:"recruit_first_name" json:"recruit_first_name,omitempty"`
	RecruitLastName    *string         `db:"recruit_last_name" json:"recruit_last_name,omitempty"`
}

// WithFeedback pairs a message with its extraction feedback history.
type WithFeedback struct {
	Email    *entity.Email     `json:"email"`
	Feedback []FeedbackSummary `json:"feedback"`
}

// GetWithFeedback returns a message plus every extraction feedback row
// recorded against it, newest first. Feedback references messages by the
// provider email_id string rather than the row id, so entries survive
// re-ingestion.
func (s *Service) GetWithFeedback(ctx context.Context, id int64) (*WithFeedback, error) {
	e, err := s.emails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var fb []FeedbackSummary
	q := `SELECT f.id, f.recruit_id, f.original_extraction, f.corrected_values,
			f.notes, f.used_cache, f.model_used, f.created_at,
			r.first_name AS recruit_first_name, r.last_name AS recruit_last_name
		FROM extraction_feedback f
		LEFT JOIN recruits r ON r.id = f.recruit_id
		WHERE f.email_id = $1
		ORDER BY f.created_at DESC`
	if err := s.db.SelectContext(ctx, &fb, q, e.EmailID); err != nil {
		return nil, database.MapError(err)
	}
	return &WithFeedback{Email: e, Feedback: fb}, nil
}

// Enqueue adds a fetch-and-process work item.
func (s *Service) Enqueue(ctx context.Context, qe *entity.QueueEntry) error {
	return s.queue.Enqueue(ctx, qe)
}

// QueueByStatus lists queue entries with one status in work order.
func (s *Service) QueueByStatus(ctx context.Context, status string, limit int) ([]entity.QueueEntry, error) {
	return s.queue.ListByStatus(ctx, status, limit)
}

// QueueByUserAndStatus narrows QueueByStatus to one user.
func (s *Service) QueueByUserAndStatus(ctx context.Context, userID, status string, limit int) ([]entity.QueueEntry, error) {
	return s.queue.ListByUserAndStatus(ctx, userID, status, limit)
}

// UpdateQueueStatus records a status transition, stamping processed_at on
// terminal statuses.
func (s *Service) UpdateQueueStatus(ctx context.Context, id int64, status string, errorMessage *string) (*entity.QueueEntry, error) {
	return s.queue.UpdateStatus(ctx, id, status, errorMessage)
}

// QueueDepth reports entry counts per status.
func (s *Service) QueueDepth(ctx context.Context) (map[string]int64, error) {
	return s.queue.CountByStatus(ctx)
}

// ClaimBatch atomically claims up to limit queued entries for a worker.
// The batch carries an ephemeral claim id for log correlation.
func (s *Service) ClaimBatch(ctx context.Context, limit int) (*entity.ClaimedBatch, error) {
	entries, err := s.queue.Claim(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &entity.ClaimedBatch{
		ClaimID: utilities.NewClaimID(),
		Entries: entries,
	}, nil
}

// DeleteQueueEntry removes one queue entry.
func (s *Service) DeleteQueueEntry(ctx context.Context, id int64) error {
	deleted, err := s.queue.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}
