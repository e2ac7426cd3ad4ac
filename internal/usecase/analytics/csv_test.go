package analytics

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"pulseboard/internal/ports"
)

func TestWriteEventsCSV(t *testing.T) {
	journeyTime := 12.5
	message := "Error: Timeout"
	rows := []ports.EventRow{
		{
			ID:          1,
			Service:     "Portal",
			Channel:     "web",
			Action:      "login",
			Status:      "success",
			Timestamp:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
			JourneyTime: &journeyTime,
		},
		{
			ID:           2,
			Service:      "Portal",
			Channel:      "web",
			Action:       "payment",
			Status:       "error",
			Timestamp:    time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			ErrorMessage: &message,
		},
	}

	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, rows); err != nil {
		t.Fatalf("WriteEventsCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("output has %d records, want header + 2 rows", len(records))
	}
	if records[0][0] != "id" || records[0][6] != "journey_time" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][6] != "12.50" {
		t.Fatalf("journey_time = %q, want 12.50", records[1][6])
	}
	if records[1][7] != "" {
		t.Fatalf("error_message for success row = %q, want empty", records[1][7])
	}
	if records[2][6] != "" {
		t.Fatalf("journey_time for error row = %q, want empty", records[2][6])
	}
	if records[2][7] != "Error: Timeout" {
		t.Fatalf("error_message = %q", records[2][7])
	}
	if records[1][5] != "2026-03-10 09:30:00" {
		t.Fatalf("timestamp = %q", records[1][5])
	}
}

func TestWriteEventsCSVEmptyRowsStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteEventsCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("output has %d records, want header only", len(records))
	}
}

func TestWriteDefectsCSVResolvedAt(t *testing.T) {
	resolved := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	testCaseID := uint(7)
	rows := []ports.DefectRow{
		{
			ID:         1,
			ServiceID:  1,
			Service:    "Portal",
			TestCaseID: &testCaseID,
			Title:      "Timeout",
			Severity:   "High",
			Status:     "Resolved",
			CreatedAt:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			ResolvedAt: &resolved,
		},
		{
			ID:        2,
			ServiceID: 1,
			Service:   "Portal",
			Title:     "Crash",
			Severity:  "Critical",
			Status:    "Open",
			CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteDefectsCSV(&buf, rows); err != nil {
		t.Fatalf("WriteDefectsCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("output has %d records, want header + 2 rows", len(records))
	}

	resolvedCol := -1
	for i, name := range records[0] {
		if name == "resolved_at" {
			resolvedCol = i
		}
	}
	if resolvedCol < 0 {
		t.Fatalf("header %v has no resolved_at column", records[0])
	}
	if records[1][resolvedCol] == "" {
		t.Fatal("resolved defect has empty resolved_at")
	}
	if records[2][resolvedCol] != "" {
		t.Fatalf("open defect resolved_at = %q, want empty", records[2][resolvedCol])
	}
}
