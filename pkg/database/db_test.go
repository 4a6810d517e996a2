package database

import (
	"strings"
	"testing"
)

func TestDsnWithSessionParamsURLForm(t *testing.T) {
	got, err := dsnWithSessionParams(
		"postgres://u:p@localhost:5432/recruiting?sslmode=disable", "UTC", "UTF8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"timezone=UTC", "client_encoding=UTF8", "sslmode=disable"} {
		if !strings.Contains(got, want) {
			t.Errorf("dsn missing %q: %s", want, got)
		}
	}
}

func TestDsnWithSessionParamsKeywordForm(t *testing.T) {
	got, err := dsnWithSessionParams("host=localhost dbname=recruiting", "America/Chicago", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "timezone='America/Chicago'") {
		t.Errorf("timezone not appended: %s", got)
	}
	if strings.Contains(got, "client_encoding") {
		t.Errorf("empty setting must not be appended: %s", got)
	}
}

func TestDsnWithSessionParamsUnchangedWhenUnset(t *testing.T) {
	dsn := "postgres://localhost/recruiting"
	got, err := dsnWithSessionParams(dsn, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != dsn {
		t.Fatalf("dsn changed without settings: %s", got)
	}
}

func TestKeywordValueEscaping(t *testing.T) {
	if got := keywordValue(`O'Hare\TZ`); got != `'O\'Hare\\TZ'` {
		t.Fatalf("unexpected quoting: %s", got)
	}
}
