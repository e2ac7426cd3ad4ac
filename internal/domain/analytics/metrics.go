// Package analytics holds the aggregation engine: pure, total functions
// turning flat row-sets into KPIs and distribution tables. Every function
// accepts empty, nil-filled or single-row input and returns a zero value or
// an empty breakdown instead of failing.
package analytics

import (
	"sort"

	"pulseboard/internal/ports"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPending = "pending"
)

// EventStatuses is the canonical event status order.
var EventStatuses = []string{StatusSuccess, StatusError, StatusPending}

// TestStatuses is the canonical UAT test case status order.
var TestStatuses = []string{"Not Started", "Passed", "Failed", "Blocked"}

// DefectSeverities is ordered highest first; distribution tables keep this
// order regardless of counts.
var DefectSeverities = []string{"Critical", "High", "Medium", "Low"}

// DefectStatuses is the canonical defect workflow order.
var DefectStatuses = []string{"Open", "In Progress", "Resolved", "Closed"}

// KPISnapshot bundles the headline event metrics.
type KPISnapshot struct {
	TotalEvents    int
	CompletionRate float64
	ErrorRate      float64
	PendingRate    float64
	AvgJourneyTime float64
}

func Snapshot(rows []ports.EventRow) KPISnapshot {
	return KPISnapshot{
		TotalEvents:    len(rows),
		CompletionRate: CompletionRate(rows),
		ErrorRate:      ErrorRate(rows),
		PendingRate:    PendingRate(rows),
		AvgJourneyTime: AvgJourneyTime(rows),
	}
}

// CompletionRate is the percentage of success events over all events.
func CompletionRate(rows []ports.EventRow) float64 {
	return statusRate(rows, StatusSuccess)
}

// ErrorRate is the percentage of error events over all events.
func ErrorRate(rows []ports.EventRow) float64 {
	return statusRate(rows, StatusError)
}

// PendingRate is the percentage of pending events over all events.
func PendingRate(rows []ports.EventRow) float64 {
	return statusRate(rows, StatusPending)
}

func statusRate(rows []ports.EventRow, status string) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	matched := 0
	for _, row := range rows {
		if row.Status == status {
			matched++
		}
	}
	return float64(matched) / float64(len(rows)) * 100
}

// AvgJourneyTime is the mean of the non-nil journey times, in seconds.
// Presence, not status, decides inclusion: a pending row with a journey
// time contributes to the mean.
func AvgJourneyTime(rows []ports.EventRow) float64 {
	sum := 0.0
	count := 0
	for _, row := range rows {
		if row.JourneyTime == nil {
			continue
		}
		sum += *row.JourneyTime
		count++
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// ServicePerformance is one row of the per-service completion table.
type ServicePerformance struct {
	Service        string
	CompletionRate float64
	TotalEvents    int
}

// ServicePerformanceByName groups events by service name and computes the
// completion rate per group. Groups only exist for services that have at
// least one event, so no division by zero is possible. Output is sorted by
// service name for determinism.
func ServicePerformanceByName(rows []ports.EventRow) []ServicePerformance {
	if len(rows) == 0 {
		return nil
	}

	type group struct {
		total   int
		success int
	}
	groups := make(map[string]*group)
	for _, row := range rows {
		g, ok := groups[row.Service]
		if !ok {
			g = &group{}
			groups[row.Service] = g
		}
		g.total++
		if row.Status == StatusSuccess {
			g.success++
		}
	}

	out := make([]ServicePerformance, 0, len(groups))
	for name, g := range groups {
		out = append(out, ServicePerformance{
			Service:        name,
			CompletionRate: float64(g.success) / float64(g.total) * 100,
			TotalEvents:    g.total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })
	return out
}

// StatusCount is one row of a status distribution table.
type StatusCount struct {
	Status     string
	Count      int
	Percentage float64
}

// StatusDistribution counts events per distinct status value, with the
// percentage computed against all rows. Present statuses therefore always
// sum to 100 (± float rounding). Ordering: count descending, then name.
func StatusDistribution(rows []ports.EventRow) []StatusCount {
	if len(rows) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{
			Status:     status,
			Count:      count,
			Percentage: float64(count) / float64(len(rows)) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// LabelCount is one row of a count-only breakdown.
type LabelCount struct {
	Label string
	Count int
}

// TestStatusDistribution counts test cases per enumerated status in
// canonical order. Absent statuses are omitted, never zero-filled; rows
// with an unknown status stay out of the breakdown but still count toward
// the caller's total.
func TestStatusDistribution(rows []ports.TestCaseRow) []LabelCount {
	counts := make(map[string]int, len(TestStatuses))
	for _, row := range rows {
		counts[row.Status]++
	}
	return orderedCounts(TestStatuses, counts)
}

// TestPassRate is the percentage of Passed test cases over all test cases.
func TestPassRate(rows []ports.TestCaseRow) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	passed := 0
	for _, row := range rows {
		if row.Status == "Passed" {
			passed++
		}
	}
	return float64(passed) / float64(len(rows)) * 100
}

// DefectSeverityDistribution counts defects per severity in the fixed
// Critical, High, Medium, Low order. Absent severities are omitted.
func DefectSeverityDistribution(rows []ports.DefectRow) []LabelCount {
	counts := make(map[string]int, len(DefectSeverities))
	for _, row := range rows {
		counts[row.Severity]++
	}
	return orderedCounts(DefectSeverities, counts)
}

// DefectStatusDistribution counts defects per workflow status in canonical
// order. Absent statuses are omitted.
func DefectStatusDistribution(rows []ports.DefectRow) []LabelCount {
	counts := make(map[string]int, len(DefectStatuses))
	for _, row := range rows {
		counts[row.Status]++
	}
	return orderedCounts(DefectStatuses, counts)
}

// orderedCounts keeps only labels from the enumerated set, in the set's
// order. Unknown labels never reach the output.
func orderedCounts(order []string, counts map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(order))
	for _, label := range order {
		if count, ok := counts[label]; ok && count > 0 {
			out = append(out, LabelCount{Label: label, Count: count})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
