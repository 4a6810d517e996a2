package email

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/email/entity"
	"github.com/scoutline/recruiting-data/internal/schema"
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

func seedUser(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	id := utilities.NewUserID()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, email) VALUES ($1, $2)`,
		id, fmt.Sprintf("worker-%s@example.com", id))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func TestClaimBatchTagsEntries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := NewService(db)
	userID := seedUser(t, db)

	for i := 0; i < 2; i++ {
		qe := &entity.QueueEntry{
			UserID:   userID,
			EmailID:  utilities.NewUserID(),
			Provider: "gmail",
			FolderID: "INBOX",
			Priority: i,
		}
		if err := svc.Enqueue(ctx, qe); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	batch, err := svc.ClaimBatch(ctx, 2)
	if err != nil {
		t.Fatalf("claim batch: %v", err)
	}
	if batch.ClaimID == "" {
		t.Fatal("claimed batch must carry a claim id")
	}
	if len(batch.Entries) == 0 {
		t.Fatal("expected at least one claimed entry")
	}
	for _, qe := range batch.Entries {
		if qe.Status != entity.StatusProcessing {
			t.Errorf("claimed entry %d has status %s", qe.ID, qe.Status)
		}
	}

	// an empty queue still yields a tagged batch, just with no entries
	again, err := svc.ClaimBatch(ctx, 0)
	if err != nil {
		t.Fatalf("claim empty: %v", err)
	}
	if again.ClaimID == "" {
		t.Fatal("empty batch must still carry a claim id")
	}
	if len(again.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(again.Entries))
	}
}
