package repo

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
		id, fmt.Sprintf("queue-%s@example.com", id))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func enqueue(t *testing.T, r *QueueRepo, userID string, priority int) *entity.QueueEntry {
	t.Helper()
	qe := &entity.QueueEntry{
		UserID:   userID,
		EmailID:  utilities.NewUserID(),
		Provider: "gmail",
		FolderID: "INBOX",
		Priority: priority,
	}
	if err := r.Enqueue(context.Background(), qe); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return qe
}

func TestEnqueueDefaultsToQueued(t *testing.T) {
	db := testDB(t)
	r := NewQueueRepo(db)
	qe := enqueue(t, r, seedUser(t, db), 0)
	if qe.Status != entity.StatusQueued {
		t.Fatalf("expected %s, got %s", entity.StatusQueued, qe.Status)
	}
	if qe.ID == 0 {
		t.Fatal("id not assigned")
	}
}

func TestClaimHonorsPriorityAndFlipsStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	r := NewQueueRepo(db)
	userID := seedUser(t, db)

	low := enqueue(t, r, userID, 1)
	high := enqueue(t, r, userID, 10)
	enqueue(t, r, userID, 5)

	claimed, err := r.Claim(ctx, 2)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("expected 2 claimed entries, got %d", len(claimed))
	}
	got := map[int64]bool{}
	for _, qe := range claimed {
		got[qe.ID] = true
		if qe.Status != entity.StatusProcessing {
			t.Errorf("claimed entry %d has status %s", qe.ID, qe.Status)
		}
	}
	if !got[high.ID] {
		t.Error("highest priority entry not claimed")
	}
	if got[low.ID] {
		t.Error("lowest priority entry claimed before higher ones")
	}

	// the remaining queued entry is still claimable
	rest, err := r.ListByUserAndStatus(ctx, userID, entity.StatusQueued, 10)
	if err != nil {
		t.Fatalf("list queued: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 entry still queued, got %d", len(rest))
	}
}

func TestUpdateStatusStampsTerminal(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	r := NewQueueRepo(db)
	qe := enqueue(t, r, seedUser(t, db), 0)

	moved, err := r.UpdateStatus(ctx, qe.ID, entity.StatusProcessing, nil)
	if err != nil {
		t.Fatalf("to processing: %v", err)
	}
	if moved.ProcessedAt != nil {
		t.Fatal("non-terminal status must not stamp processed_at")
	}

	msg := "provider timeout"
	failed, err := r.UpdateStatus(ctx, qe.ID, entity.StatusFailed, &msg)
	if err != nil {
		t.Fatalf("to failed: %v", err)
	}
	if failed.ProcessedAt == nil {
		t.Fatal("terminal status must stamp processed_at")
	}
	if failed.ErrorMessage == nil || *failed.ErrorMessage != msg {
		t.Fatalf("error message not stored: %v", failed.ErrorMessage)
	}
}
