package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
)

func TestMapErrorNil(t *testing.T) {
	if got := MapError(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMapErrorNoRows(t *testing.T) {
	if got := MapError(sql.ErrNoRows); !errors.Is(got, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", got)
	}
}

func TestMapErrorUniqueViolation(t *testing.T) {
	src := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	got := MapError(src)
	if !errors.Is(got, ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", got)
	}
	if !strings.Contains(got.Error(), "users_email_key") {
		t.Fatalf("constraint name lost: %v", got)
	}
	if !IsUniqueViolation(got) {
		t.Fatal("IsUniqueViolation should match mapped error")
	}
}

func TestMapErrorForeignKeyViolation(t *testing.T) {
	src := &pq.Error{Code: "23503", Constraint: "recruits_user_id_fkey"}
	got := MapError(src)
	if !errors.Is(got, ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", got)
	}
}

func TestMapErrorWrappedPqError(t *testing.T) {
	src := fmt.Errorf("insert recruit: %w", &pq.Error{Code: "23505", Constraint: "recruits_email_address_key"})
	if got := MapError(src); !errors.Is(got, ErrUniqueViolation) {
		t.Fatalf("wrapped pq error not mapped: %v", got)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	src := errors.New("connection refused")
	if got := MapError(src); got != src {
		t.Fatalf("unrelated error should pass through, got %v", got)
	}
	if IsNotFound(src) || IsUniqueViolation(src) {
		t.Fatal("unrelated error should not match sentinels")
	}
}
