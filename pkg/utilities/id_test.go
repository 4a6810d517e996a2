package utilities

import "testing"

func TestNewUserID(t *testing.T) {
	id := NewUserID()
	if len(id) != 27 {
		t.Fatalf("expected 27-char ksuid, got %q (%d chars)", id, len(id))
	}
	if NewUserID() == id {
		t.Fatal("consecutive ids must differ")
	}
}

func TestNewClaimID(t *testing.T) {
	a := NewClaimID()
	b := NewClaimID()
	if a == "" || b == "" {
		t.Fatal("claim id must not be empty")
	}
	if a == b {
		t.Fatal("consecutive claim ids must differ")
	}
}

func TestNewClaimIDWithBadNodeFallsBack(t *testing.T) {
	// node ids outside the 10-bit range cannot initialize a snowflake node
	if id := NewClaimIDWithNode(99999); id == "" {
		t.Fatal("fallback id must not be empty")
	}
}
