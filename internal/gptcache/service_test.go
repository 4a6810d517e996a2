package gptcache

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/gptcache/entity"
	"github.com/scoutline/recruiting-data/internal/schema"
	"github.com/scoutline/recruiting-data/pkg/database"
	"github.com/scoutline/recruiting-data/pkg/utilities"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := schema.Apply(context.Background(), db, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHash(t *testing.T) {
	// md5 of "hello" is well known
	if got := Hash("hello"); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("unexpected hash %q", got)
	}
}

func TestCreateDuplicateHashKeepsOriginalResult(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := NewService(db)

	hash := Hash("extraction input " + utilities.NewUserID())
	first := &entity.Entry{ContentHash: hash, ResultJSON: json.RawMessage(`{"grad_year": "2027"}`)}
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM gpt_cache WHERE content_hash = $1`, hash)
	})

	second := &entity.Entry{ContentHash: hash, ResultJSON: json.RawMessage(`{"grad_year": "1999"}`)}
	if err := svc.Create(ctx, second); !database.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	stored, err := svc.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	var got, want map[string]any
	if err := json.Unmarshal(stored.ResultJSON, &got); err != nil {
		t.Fatalf("stored result not json: %v", err)
	}
	if err := json.Unmarshal(first.ResultJSON, &want); err != nil {
		t.Fatalf("seed result not json: %v", err)
	}
	if got["grad_year"] != want["grad_year"] {
		t.Fatalf("rejected insert altered the stored result: %s", stored.ResultJSON)
	}
	if bytes.Contains(stored.ResultJSON, []byte("1999")) {
		t.Fatalf("second payload leaked into the row: %s", stored.ResultJSON)
	}
}

func TestHashStable(t *testing.T) {
	a := Hash("Dear Coach, my daughter plays center mid.")
	b := Hash("Dear Coach, my daughter plays center mid.")
	if a != b {
		t.Fatalf("hash not deterministic: %q vs %q", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
	if c := Hash("Dear Coach, my daughter plays center mid!"); c == a {
		t.Fatal("different content produced the same hash")
	}
}
