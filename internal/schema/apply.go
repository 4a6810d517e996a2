package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Apply creates all tables and indexes and installs the updated_at
// triggers. Every statement is guarded, so Apply can run on every boot and
// after any schema addition without producing duplicate objects.
func Apply(ctx context.Context, db *sqlx.DB, logger *zap.SugaredLogger) error {
	for _, t := range Tables {
		if _, err := db.ExecContext(ctx, t.DDL); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	for _, idx := range Indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	covered, err := InstallUpdatedAtTriggers(ctx, db)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Infow("schema applied", "tables", len(Tables), "triggers", len(covered))
	}
	return nil
}
