package report

import (
	"reflect"
	"testing"
	"time"

	"pulseboard/internal/domain/analytics"
)

func sectionHeadings(doc Document) []string {
	out := make([]string, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		out = append(out, section.Heading)
	}
	return out
}

func findSection(t *testing.T, doc Document, heading string) Section {
	t.Helper()
	for _, section := range doc.Sections {
		if section.Heading == heading {
			return section
		}
	}
	t.Fatalf("section %q not found in %v", heading, sectionHeadings(doc))
	return Section{}
}

func TestBuildAnalyticsSectionOrder(t *testing.T) {
	input := AnalyticsInput{
		KPI: analytics.KPISnapshot{
			TotalEvents:    100,
			CompletionRate: 85,
			ErrorRate:      10,
			PendingRate:    5,
			AvgJourneyTime: 42.5,
		},
		ServicePerf: []analytics.ServicePerformance{
			{Service: "Online Banking Portal", CompletionRate: 85, TotalEvents: 100},
		},
		StatusDist: []analytics.StatusCount{
			{Status: "success", Count: 85, Percentage: 85},
			{Status: "error", Count: 10, Percentage: 10},
			{Status: "pending", Count: 5, Percentage: 5},
		},
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}

	doc := BuildAnalytics(input)

	want := []string{
		"Executive Summary",
		"Key Performance Indicators",
		"Service Performance",
		"Event Summary",
		"Key Insights",
	}
	if got := sectionHeadings(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("section order = %v, want %v", got, want)
	}

	kpi := findSection(t, doc, "Key Performance Indicators")
	wantRows := [][]string{
		{"Total Events", "100"},
		{"Completion Rate", "85.00%"},
		{"Error Rate", "10.00%"},
		{"Average Journey Time", "42.50s"},
	}
	if !reflect.DeepEqual(kpi.Tables[0].Rows, wantRows) {
		t.Fatalf("KPI rows = %v, want %v", kpi.Tables[0].Rows, wantRows)
	}

	events := findSection(t, doc, "Event Summary")
	if events.Paragraphs[0] != "Total events analyzed: 100" {
		t.Fatalf("event summary line = %q", events.Paragraphs[0])
	}
	if len(events.Tables) != 1 || len(events.Tables[0].Rows) != 3 {
		t.Fatalf("event summary tables = %+v", events.Tables)
	}
}

func TestBuildAnalyticsEmptyInput(t *testing.T) {
	doc := BuildAnalytics(AnalyticsInput{GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)})

	// Service Performance and Event Summary are omitted entirely.
	want := []string{"Executive Summary", "Key Performance Indicators", "Key Insights"}
	if got := sectionHeadings(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("section order = %v, want %v", got, want)
	}

	kpi := findSection(t, doc, "Key Performance Indicators")
	wantRows := [][]string{
		{"Total Events", "0"},
		{"Completion Rate", "0.00%"},
		{"Error Rate", "0.00%"},
		{"Average Journey Time", "0.00s"},
	}
	if !reflect.DeepEqual(kpi.Tables[0].Rows, wantRows) {
		t.Fatalf("KPI rows = %v, want %v", kpi.Tables[0].Rows, wantRows)
	}

	// 0 < 90 fires the urgent branch; error rate 0 < 5 is acceptable.
	insights := findSection(t, doc, "Key Insights").Bullets
	wantBullets := []string{
		"Low completion rate requires immediate attention and investigation.",
		"Error rate is within acceptable limits.",
	}
	if !reflect.DeepEqual(insights, wantBullets) {
		t.Fatalf("insights = %v, want %v", insights, wantBullets)
	}
}

func TestInsightBranchesAreExclusive(t *testing.T) {
	cases := []struct {
		name           string
		completion     float64
		errorRate      float64
		wantCompletion string
		wantError      string
	}{
		{"excellent", 95, 0, "Excellent completion rate indicates stable service performance.", "Error rate is within acceptable limits."},
		{"good", 90, 4.99, "Completion rate is good but could be improved.", "Error rate is within acceptable limits."},
		{"urgent", 89.99, 5, "Low completion rate requires immediate attention and investigation.", "High error rate detected - review error patterns and root causes."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := insights(analytics.KPISnapshot{
				CompletionRate: tc.completion,
				ErrorRate:      tc.errorRate,
			}, DefaultThresholds())
			if len(got) != 2 {
				t.Fatalf("insights len = %d, want 2", len(got))
			}
			if got[0] != tc.wantCompletion {
				t.Fatalf("completion insight = %q, want %q", got[0], tc.wantCompletion)
			}
			if got[1] != tc.wantError {
				t.Fatalf("error insight = %q, want %q", got[1], tc.wantError)
			}
		})
	}
}

func TestBuildAnalyticsIdempotent(t *testing.T) {
	input := AnalyticsInput{
		KPI: analytics.KPISnapshot{TotalEvents: 10, CompletionRate: 90, ErrorRate: 10},
		StatusDist: []analytics.StatusCount{
			{Status: "success", Count: 9, Percentage: 90},
			{Status: "error", Count: 1, Percentage: 10},
		},
		GeneratedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}

	first := BuildAnalytics(input)
	second := BuildAnalytics(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("BuildAnalytics() is not deterministic")
	}
}

func TestGroupThousands(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-4321:    "-4,321",
	}
	for in, want := range cases {
		if got := groupThousands(in); got != want {
			t.Fatalf("groupThousands(%d) = %q, want %q", in, got, want)
		}
	}
}
