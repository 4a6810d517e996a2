package entity

import "testing"

func TestIsTerminalStatus(t *testing.T) {
	cases := map[string]bool{
		StatusQueued:     false,
		StatusProcessing: false,
		StatusCompleted:  true,
		StatusFailed:     true,
		"RETRYING":       false,
		"":               false,
	}
	for status, want := range cases {
		if got := IsTerminalStatus(status); got != want {
			t.Errorf("IsTerminalStatus(%q) = %v, want %v", status, got, want)
		}
	}
}
