package schema

import (
	"strings"
	"testing"
)

// Index of each table in the apply order; referenced tables must come
// before their dependents or the foreign keys fail on a fresh database.
func tableIndex(t *testing.T) map[string]int {
	t.Helper()
	idx := make(map[string]int, len(Tables))
	for i, tbl := range Tables {
		idx[tbl.Name] = i
	}
	return idx
}

func TestTablesDependencyOrder(t *testing.T) {
	idx := tableIndex(t)
	deps := map[string][]string{
		"user_settings":       {"users"},
		"recruits":            {"users"},
		"schedules":           {"users", "recruits"},
		"emails":              {"users"},
		"email_queue":         {"users"},
		"extraction_feedback": {"users", "recruits"},
		"team_aliases":        {"teams"},
		"scraping_logs":       {"scraper_configurations"},
	}
	for table, refs := range deps {
		ti, ok := idx[table]
		if !ok {
			t.Fatalf("table %s missing from apply order", table)
		}
		for _, ref := range refs {
			ri, ok := idx[ref]
			if !ok {
				t.Fatalf("referenced table %s missing from apply order", ref)
			}
			if ri >= ti {
				t.Errorf("%s is created at %d but depends on %s at %d", table, ti, ref, ri)
			}
		}
	}
}

func TestTablesCount(t *testing.T) {
	if len(Tables) != 13 {
		t.Fatalf("expected 13 tables, got %d", len(Tables))
	}
}

func TestDDLIsIdempotent(t *testing.T) {
	for _, tbl := range Tables {
		if !strings.Contains(tbl.DDL, "CREATE TABLE IF NOT EXISTS "+tbl.Name) {
			t.Errorf("table %s DDL is not guarded with IF NOT EXISTS", tbl.Name)
		}
	}
	for _, idx := range Indexes {
		if !strings.HasPrefix(idx, "CREATE INDEX IF NOT EXISTS") {
			t.Errorf("index statement not guarded: %s", idx)
		}
	}
}

func TestEveryTableHasTimestamps(t *testing.T) {
	for _, tbl := range Tables {
		for _, col := range []string{"created_at", "updated_at"} {
			if !strings.Contains(tbl.DDL, col+" TIMESTAMPTZ NOT NULL DEFAULT NOW()") {
				t.Errorf("table %s missing %s column", tbl.Name, col)
			}
		}
	}
}

func TestTriggerName(t *testing.T) {
	if got := triggerName("recruits"); got != "trg_recruits_set_updated_at" {
		t.Fatalf("unexpected trigger name %q", got)
	}
}

func TestTriggerDDLQuotesIdentifiers(t *testing.T) {
	drop, create := triggerDDL("email_queue")
	if !strings.Contains(drop, `"trg_email_queue_set_updated_at"`) || !strings.Contains(drop, `"email_queue"`) {
		t.Errorf("drop statement not quoted: %s", drop)
	}
	if !strings.Contains(create, "BEFORE UPDATE ON") || !strings.Contains(create, "FOR EACH ROW EXECUTE FUNCTION set_updated_at()") {
		t.Errorf("create statement malformed: %s", create)
	}
	if !strings.HasPrefix(drop, "DROP TRIGGER IF EXISTS") {
		t.Errorf("drop statement must be idempotent: %s", drop)
	}
}

func TestTriggerDDLEscapesHostileName(t *testing.T) {
	drop, _ := triggerDDL(`evil"table`)
	if strings.Contains(drop, `evil"table ON`) {
		t.Fatalf("identifier not escaped: %s", drop)
	}
	if !strings.Contains(drop, `"evil""table"`) {
		t.Fatalf("expected doubled quote escaping, got %s", drop)
	}
}
