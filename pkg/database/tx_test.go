package database

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
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
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db := testDB(t)
	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		var one int
		return tx.GetContext(context.Background(), &one, `SELECT 1`)
	})
	if err != nil {
		t.Fatalf("expected commit, got %v", err)
	}
}

func TestWithTxWrapsCallbackError(t *testing.T) {
	db := testDB(t)
	boom := errors.New("boom")
	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return boom
	})
	if !errors.Is(err, ErrTransactionAborted) {
		t.Fatalf("expected ErrTransactionAborted, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestWithTxCommitFailureIsAborted(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		// canceling the transaction's context makes the later Commit fail
		cancel()
		return nil
	})
	if !errors.Is(err, ErrTransactionAborted) {
		t.Fatalf("failed commit must carry ErrTransactionAborted, got %v", err)
	}
}
