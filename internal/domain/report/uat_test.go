package report

import (
	"reflect"
	"testing"
	"time"

	"pulseboard/internal/domain/analytics"
)

func TestBuildUATWithData(t *testing.T) {
	doc := BuildUAT(UATInput{
		TotalTestCases: 7,
		TestStatusDist: []analytics.LabelCount{
			{Label: "Passed", Count: 4},
			{Label: "Failed", Count: 2},
			{Label: "Blocked", Count: 1},
		},
		TotalDefects: 3,
		SeverityDist: []analytics.LabelCount{
			{Label: "Critical", Count: 2},
			{Label: "Low", Count: 1},
		},
		DefectStatusDist: []analytics.LabelCount{
			{Label: "Open", Count: 2},
			{Label: "Closed", Count: 1},
		},
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})

	if doc.Title != "UAT & Regression Testing Report" {
		t.Fatalf("title = %q", doc.Title)
	}
	want := []string{"Test Cases Summary", "Defects Summary"}
	if got := sectionHeadings(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("section order = %v, want %v", got, want)
	}

	tests := doc.Sections[0]
	if tests.Paragraphs[0] != "Total Test Cases: 7" {
		t.Fatalf("test summary line = %q", tests.Paragraphs[0])
	}
	if len(tests.Tables) != 1 || len(tests.Tables[0].Rows) != 3 {
		t.Fatalf("test summary tables = %+v", tests.Tables)
	}

	defects := doc.Sections[1]
	if defects.Paragraphs[0] != "Total Defects: 3" {
		t.Fatalf("defect summary line = %q", defects.Paragraphs[0])
	}
	// Severity table first, then status table.
	if len(defects.Tables) != 2 {
		t.Fatalf("defect tables = %d, want 2", len(defects.Tables))
	}
	if defects.Tables[0].Header[0] != "Severity" || defects.Tables[1].Header[0] != "Status" {
		t.Fatalf("defect table headers = %v, %v", defects.Tables[0].Header, defects.Tables[1].Header)
	}
	wantSeverity := [][]string{{"Critical", "2"}, {"Low", "1"}}
	if !reflect.DeepEqual(defects.Tables[0].Rows, wantSeverity) {
		t.Fatalf("severity rows = %v, want %v", defects.Tables[0].Rows, wantSeverity)
	}
}

func TestBuildUATEmpty(t *testing.T) {
	doc := BuildUAT(UATInput{GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)})

	tests := doc.Sections[0]
	if tests.Paragraphs[0] != "No test cases data available." {
		t.Fatalf("test summary line = %q", tests.Paragraphs[0])
	}
	if len(tests.Tables) != 0 {
		t.Fatalf("test tables = %+v, want none", tests.Tables)
	}

	defects := doc.Sections[1]
	if defects.Paragraphs[0] != "No defects data available." {
		t.Fatalf("defect summary line = %q", defects.Paragraphs[0])
	}
	if len(defects.Tables) != 0 {
		t.Fatalf("defect tables = %+v, want none", defects.Tables)
	}
}
