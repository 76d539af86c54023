package entities

import (
	"strings"
	"testing"
	"time"
)

func TestScheduleItem_Validation(t *testing.T) {
	start := time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)

	item, err := NewScheduleItem("S1", "O1", "P1", "L1", start, start.Add(17*time.Minute), 10, 7, Planned)
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if item.TotalMinutes() != 17 {
		t.Errorf("Expected total 17 minutes, got %d", item.TotalMinutes())
	}

	testCases := []struct {
		name        string
		end         time.Time
		setup, run  Minutes
		expectError string
	}{
		{"end equals start", start, 0, 0, "must be after start"},
		{"end before start", start.Add(-time.Minute), 0, 1, "must be after start"},
		{"negative setup", start.Add(5 * time.Minute), -1, 6, "cannot be negative"},
		{"span mismatch", start.Add(20 * time.Minute), 10, 7, "setup+run is 17m0s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScheduleItem("S1", "O1", "P1", "L1", start, tc.end, tc.setup, tc.run, Planned)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error to contain '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestMinutes_Duration(t *testing.T) {
	if got := Minutes(30).Duration(); got != 30*time.Minute {
		t.Errorf("Expected 30m, got %v", got)
	}
}

func TestItemKind_String(t *testing.T) {
	if Planned.String() != "PLANNED" || Actual.String() != "ACTUAL" {
		t.Errorf("Unexpected kind names: %s, %s", Planned, Actual)
	}
}

func TestParseItemKind(t *testing.T) {
	for input, expected := range map[string]ItemKind{"PLANNED": Planned, "actual": Actual, " Actual ": Actual} {
		kind, err := ParseItemKind(input)
		if err != nil {
			t.Fatalf("Expected %q to parse: %v", input, err)
		}
		if kind != expected {
			t.Errorf("Expected %s for %q, got %s", expected, input, kind)
		}
	}

	if _, err := ParseItemKind("maybe"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}
