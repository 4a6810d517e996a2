package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/scraper/entity"
	scraperrepo "github.com/scoutline/recruiting-data/internal/scraper/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Service encapsulates scraper configuration and run-log operations.
type Service struct {
	configs *scraperrepo.ConfigRepo
	logs    *scraperrepo.LogRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		configs: scraperrepo.NewConfigRepo(db),
		logs:    scraperrepo.NewLogRepo(db),
	}
}

// CreateConfiguration registers a scraping target.
func (s *Service) CreateConfiguration(ctx context.Context, c *entity.Configuration) error {
	return s.configs.Create(ctx, c)
}

// GetConfiguration returns one configuration or database.ErrNotFound.
func (s *Service) GetConfiguration(ctx context.Context, id int64) (*entity.Configuration, error) {
	return s.configs.GetByID(ctx, id)
}

// Configurations returns every configuration.
func (s *Service) Configurations(ctx context.Context) ([]entity.Configuration, error) {
	return s.configs.List(ctx)
}

// ConfigurationsBySource returns configurations for one source.
func (s *Service) ConfigurationsBySource(ctx context.Context, source string) ([]entity.Configuration, error) {
	return s.configs.ListBySource(ctx, source)
}

// ActiveConfigurations returns configurations eligible to run.
func (s *Service) ActiveConfigurations(ctx context.Context) ([]entity.Configuration, error) {
	return s.configs.ListActive(ctx)
}

// UpdateConfiguration rewrites a configuration.
func (s *Service) UpdateConfiguration(ctx context.Context, c *entity.Configuration) error {
	return s.configs.Update(ctx, c)
}

// UpdateParameters replaces a configuration's parameters payload.
func (s *Service) UpdateParameters(ctx context.Context, id int64, parameters []byte) (*entity.Configuration, error) {
	return s.configs.UpdateParameters(ctx, id, parameters)
}

// ToggleConfiguration flips a configuration's active flag.
func (s *Service) ToggleConfiguration(ctx context.Context, id int64) (*entity.Configuration, error) {
	return s.configs.ToggleActive(ctx, id)
}

// DeleteConfiguration removes a configuration and, via cascade, its logs.
func (s *Service) DeleteConfiguration(ctx context.Context, id int64) error {
	deleted, err := s.configs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// GetWithLatestLog returns a configuration plus its most recent run; a
// configuration that has never run carries a nil log.
func (s *Service) GetWithLatestLog(ctx context.Context, id int64) (*entity.WithLatestLog, error) {
	c, err := s.configs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l, err := s.logs.LatestForConfig(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &entity.WithLatestLog{Configuration: c}, nil
		}
		return nil, err
	}
	return &entity.WithLatestLog{Configuration: c, LatestLog: l}, nil
}

// StartRun opens a run log for a configuration.
func (s *Service) StartRun(ctx context.Context, configID int64) (*entity.Log, error) {
	return s.logs.StartRun(ctx, configID)
}

// FinishRun closes a run log with its outcome.
func (s *Service) FinishRun(ctx context.Context, id int64, totalMatches, newMatches int, results []byte, runErr *string) (*entity.Log, error) {
	return s.logs.FinishRun(ctx, id, totalMatches, newMatches, results, runErr)
}

// GetLog returns one run log or database.ErrNotFound.
func (s *Service) GetLog(ctx context.Context, id int64) (*entity.Log, error) {
	return s.logs.GetByID(ctx, id)
}

// LogsByConfig returns a page of one configuration's runs, newest first.
func (s *Service) LogsByConfig(ctx context.Context, configID int64, limit, offset int) ([]entity.Log, error) {
	return s.logs.ListByConfig(ctx, configID, limit, offset)
}

// FailedRuns returns runs that recorded an error, newest first.
func (s *Service) FailedRuns(ctx context.Context, limit int) ([]entity.Log, error) {
	return s.logs.ListFailed(ctx, limit)
}

// SuccessfulRunsSince returns clean finished runs started within the
// window.
func (s *Service) SuccessfulRunsSince(ctx context.Context, since time.Time) ([]entity.Log, error) {
	return s.logs.ListSuccessfulSince(ctx, since)
}

// RunStats aggregates run history for one configuration.
func (s *Service) RunStats(ctx context.Context, configID int64) (*entity.Stats, error) {
	return s.logs.StatsForConfig(ctx, configID)
}
