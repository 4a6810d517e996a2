package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// setUpdatedAtFunction is the single shared procedure behind every
// updated_at trigger. CREATE OR REPLACE keeps it idempotent.
const setUpdatedAtFunction = `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN
	NEW.updated_at = NOW();
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`

// tablesWithUpdatedAt asks the catalog which public tables declare an
// updated_at column, so the trigger list can never drift from the schema.
const tablesWithUpdatedAt = `
SELECT c.table_name
FROM information_schema.columns c
JOIN information_schema.tables t
	ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE c.table_schema = 'public'
	AND c.column_name = 'updated_at'
	AND t.table_type = 'BASE TABLE'
ORDER BY c.table_name`

// triggerName returns the trigger identifier for a table.
func triggerName(table string) string {
	return "trg_" + table + "_set_updated_at"
}

// triggerDDL builds the drop/create pair for one table. Identifiers are
// quoted with pq.QuoteIdentifier because trigger DDL cannot take
// placeholders.
func triggerDDL(table string) (drop string, create string) {
	qt := pq.QuoteIdentifier(table)
	qn := pq.QuoteIdentifier(triggerName(table))
	drop = fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", qn, qt)
	create = fmt.Sprintf(
		"CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION set_updated_at()",
		qn, qt)
	return drop, create
}

// InstallUpdatedAtTriggers creates the shared set_updated_at procedure and
// attaches a BEFORE UPDATE trigger to every table carrying an updated_at
// column. Triggers are dropped and recreated so the installer is safe to
// re-run after new tables are added. Returns the tables covered.
func InstallUpdatedAtTriggers(ctx context.Context, db *sqlx.DB) ([]string, error) {
	if _, err := db.ExecContext(ctx, setUpdatedAtFunction); err != nil {
		return nil, fmt.Errorf("create set_updated_at function: %w", err)
	}

	var tables []string
	if err := db.SelectContext(ctx, &tables, tablesWithUpdatedAt); err != nil {
		return nil, fmt.Errorf("list updated_at tables: %w", err)
	}

	for _, table := range tables {
		drop, create := triggerDDL(table)
		if _, err := db.ExecContext(ctx, drop); err != nil {
			return nil, fmt.Errorf("drop trigger on %s: %w", table, err)
		}
		if _, err := db.ExecContext(ctx, create); err != nil {
			return nil, fmt.Errorf("create trigger on %s: %w", table, err)
		}
	}
	return tables, nil
}
