package recruit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/scoutline/recruiting-data/internal/recruit/entity"
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

// seedUser inserts a throwaway account and schedules its removal; the
// removal cascades to everything the tests hang off it.
func seedUser(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	id := utilities.NewUserID()
	email := fmt.Sprintf("test-%s@example.com", id)
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, email) VALUES ($1, $2)`, id, email)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func strp(s string) *string { return &s }

func TestDuplicateEmailLeavesOneRow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	svc := NewService(db)

	addr := fmt.Sprintf("dup-%s@example.com", utilities.NewUserID())
	first := &entity.Recruit{UserID: userID, FirstName: strp("Avery"), EmailAddress: strp(addr)}
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := &entity.Recruit{UserID: userID, FirstName: strp("Blake"), EmailAddress: strp(addr)}
	err := svc.Create(ctx, second)
	if !database.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	var n int
	if err := db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM recruits WHERE email_address = $1`, addr); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one row after rejected duplicate, got %d", n)
	}
}

func TestUserDeleteCascadesToRecruitsAndSchedules(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	svc := NewService(db)

	rec := &entity.Recruit{UserID: userID, LastName: strp("Cascade")}
	if err := svc.Create(ctx, rec); err != nil {
		t.Fatalf("create recruit: %v", err)
	}
	var scheduleID int64
	err := db.QueryRowxContext(ctx,
		`INSERT INTO schedules (user_id, recruit_id, date, event_name)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, rec.ID, time.Now().Format("2006-01-02"), "Showcase").Scan(&scheduleID)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := svc.Get(ctx, rec.ID); !database.IsNotFound(err) {
		t.Fatalf("recruit should be gone, got %v", err)
	}
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM schedules WHERE id = $1`, scheduleID); err != nil {
		t.Fatalf("count schedules: %v", err)
	}
	if n != 0 {
		t.Fatal("schedule should cascade with its user")
	}
}

func TestUpdateEvaluationStampsDate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	userID := seedUser(t, db)
	svc := NewService(db)

	rec := &entity.Recruit{UserID: userID, LastName: strp("Evaluated")}
	if err := svc.Create(ctx, rec); err != nil {
		t.Fatalf("create recruit: %v", err)
	}
	if rec.LastEvaluationDate != nil {
		t.Fatal("fresh recruit should have no evaluation date")
	}

	updated, err := svc.UpdateEvaluation(ctx, rec.ID, "4.5", "strong left foot")
	if err != nil {
		t.Fatalf("update evaluation: %v", err)
	}
	if updated.LastEvaluationDate == nil {
		t.Fatal("evaluation date not stamped")
	}
	if updated.Rating == nil || *updated.Rating != "4.5" {
		t.Fatalf("rating not stored: %v", updated.Rating)
	}
}

func TestDeleteMissingRecruitIsNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	if err := svc.Delete(context.Background(), -1); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
