package schema

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// testDB connects to the database named by TEST_DATABASE_URL, skipping when
// unset. Tests using it apply the schema and operate on throwaway rows.
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
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyIsRerunnable(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	logger := zap.NewNop().Sugar()
	if err := Apply(ctx, db, logger); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(ctx, db, logger); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}

func TestInstallUpdatedAtTriggersCoversAllTables(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if err := Apply(ctx, db, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	covered, err := InstallUpdatedAtTriggers(ctx, db)
	if err != nil {
		t.Fatalf("install triggers: %v", err)
	}
	got := make(map[string]bool, len(covered))
	for _, name := range covered {
		got[name] = true
	}
	for _, tbl := range Tables {
		if !got[tbl.Name] {
			t.Errorf("table %s not covered by trigger installer", tbl.Name)
		}
	}
}

func TestUpdatedAtAdvancesOnUpdate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if err := Apply(ctx, db, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var id int64
	err := db.QueryRowxContext(ctx,
		`INSERT INTO teams (name, normalized_name) VALUES ($1, $2) RETURNING id`,
		"Trigger Check FC "+time.Now().Format("150405.000000"), "trigger_check_fc").Scan(&id)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)

	var before time.Time
	if err := db.GetContext(ctx, &before, `SELECT updated_at FROM teams WHERE id = $1`, id); err != nil {
		t.Fatalf("read before: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	// updating an unrelated column must still advance updated_at
	if _, err := db.ExecContext(ctx, `UPDATE teams SET gender = 'girls' WHERE id = $1`, id); err != nil {
		t.Fatalf("update: %v", err)
	}

	var after time.Time
	if err := db.GetContext(ctx, &after, `SELECT updated_at FROM teams WHERE id = $1`, id); err != nil {
		t.Fatalf("read after: %v", err)
	}
	if !after.After(before) {
		t.Fatalf("updated_at did not advance: before=%v after=%v", before, after)
	}
}
