package dates

import (
	"testing"
	"time"
)

func TestIsValid(t *testing.T) {
	valid := []string{"2024-01-31", "1999-12-01"}
	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	invalid := []string{"2024/13/40", "2024-1-1", "20240101", "2024-01-01T00:00:00", ""}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

func TestFromTimestamp(t *testing.T) {
	// 2024-03-15 12:00:00 UTC
	if got := FromTimestamp(1710504000); got != "2024-03-15" {
		t.Errorf("FromTimestamp() = %q, want 2024-03-15", got)
	}
	if got := FromTimestamp(0); got != "" {
		t.Errorf("FromTimestamp(0) = %q, want empty", got)
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	from, to := Window(now, 30)
	if from != "2024-04-20" || to != "2024-05-20" {
		t.Errorf("Window() = (%q, %q)", from, to)
	}
}
