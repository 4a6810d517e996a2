package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/scoutline/recruiting-data/internal/schema"
	"github.com/scoutline/recruiting-data/pkg/database"
	"github.com/scoutline/recruiting-data/pkg/utilities"
)

// Applies the schema and exits. Useful for provisioning a database before
// the api process has permission to run DDL.
func main() {
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	sqlDB, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := schema.Apply(ctx, sqlxDB, sugar); err != nil {
		sugar.Fatalf("schema apply: %v", err)
	}
	sugar.Info("migration complete")
}
