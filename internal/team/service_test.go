package team

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

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

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"FC United", "fc_united"},
		{"  FC United  ", "fc_united"},
		{"St. Louis Scott-Gallagher", "st_louis_scott_gallagher"},
		{"SOCKERS FC", "sockers_fc"},
		{"eclipse-select", "eclipse_select"},
		{"F.C. Dallas", "fc_dallas"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDeleteTeamCascadesToAliases(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	svc := NewService(db)

	// unique suffix keeps reruns against a shared database from colliding
	name := fmt.Sprintf("Eagles FC %s", utilities.NewUserID())
	created, err := svc.GetOrCreate(ctx, name)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, created.ID)
	})

	alias := fmt.Sprintf("Eagles %s", utilities.NewUserID())
	if _, err := svc.AddAlias(ctx, created.ID, alias, "schedule_import"); err != nil {
		t.Fatalf("add alias: %v", err)
	}
	if _, err := svc.ResolveName(ctx, alias); err != nil {
		t.Fatalf("alias should resolve before delete: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete team: %v", err)
	}

	var n int
	if err := db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM team_aliases WHERE alias = $1`, alias); err != nil {
		t.Fatalf("count aliases: %v", err)
	}
	if n != 0 {
		t.Fatalf("alias row should cascade with its team, found %d", n)
	}
	if _, err := svc.Get(ctx, created.ID); !database.IsNotFound(err) {
		t.Fatalf("team should be gone, got %v", err)
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	names := []string{"FC United", "St. Louis Scott-Gallagher", "plain"}
	for _, n := range names {
		once := NormalizeName(n)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("normalizing twice changed %q: %q -> %q", n, once, twice)
		}
	}
}
