package gptcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/gptcache/entity"
	cacherepo "github.com/scoutline/recruiting-data/internal/gptcache/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// Hash derives the cache key for a piece of content. MD5 hex keeps keys
// compatible with entries written by earlier ingest tooling; the hash
// only deduplicates, it carries no security weight.
func Hash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Service encapsulates the model-result cache.
type Service struct {
	repo *cacherepo.CacheRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: cacherepo.NewCacheRepo(db)}
}

// Lookup returns the cached result for a piece of content, hashing it
// first. A miss surfaces as database.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, content string) (*entity.Entry, error) {
	return s.repo.GetByContentHash(ctx, Hash(content))
}

// GetByHash returns the entry for a precomputed hash.
func (s *Service) GetByHash(ctx context.Context, hash string) (*entity.Entry, error) {
	return s.repo.GetByContentHash(ctx, hash)
}

// Put caches a result for a piece of content, replacing any previous
// result for the same content.
func (s *Service) Put(ctx context.Context, content, email string, result json.RawMessage) (*entity.Entry, error) {
	e := &entity.Entry{ContentHash: Hash(content), ResultJSON: result}
	if email != "" {
		e.Email = &email
	}
	if err := s.repo.Upsert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts an entry with a caller-supplied hash. An existing hash
// surfaces as database.ErrUniqueViolation rather than being replaced.
func (s *Service) Create(ctx context.Context, e *entity.Entry) error {
	return s.repo.Create(ctx, e)
}

// ListByEmail returns entries attributed to one sender.
func (s *Service) ListByEmail(ctx context.Context, email string, limit int) ([]entity.Entry, error) {
	return s.repo.ListByEmail(ctx, email, limit)
}

// Evict removes entries last touched before the cutoff, returning the
// count removed.
func (s *Service) Evict(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// Delete removes one entry by hash.
func (s *Service) Delete(ctx context.Context, hash string) error {
	deleted, err := s.repo.Delete(ctx, hash)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// Stats aggregates cache totals and age bounds.
func (s *Service) Stats(ctx context.Context) (*entity.Stats, error) {
	return s.repo.Stats(ctx)
}
