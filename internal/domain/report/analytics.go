package report

import (
	"fmt"
	"strconv"
	"time"

	"pulseboard/internal/domain/analytics"
)

// AnalyticsInput carries everything the analytics document needs. Zero
// values are legal everywhere: the builder substitutes zeroed KPI rows and
// omits the optional sections.
type AnalyticsInput struct {
	KPI         analytics.KPISnapshot
	ServicePerf []analytics.ServicePerformance
	StatusDist  []analytics.StatusCount
	GeneratedAt time.Time
	Thresholds  InsightThresholds
}

const analyticsSummaryProse = "This report provides a comprehensive analysis of digital service performance, " +
	"including key performance indicators, event analytics, and service-level metrics."

// BuildAnalytics assembles the analytics report document. Section order is
// fixed: executive summary, KPI table, service performance, event summary,
// key insights.
func BuildAnalytics(input AnalyticsInput) Document {
	thresholds := input.Thresholds
	if thresholds == (InsightThresholds{}) {
		thresholds = DefaultThresholds()
	}

	doc := Document{
		Title:       "Digital Service Analytics Report",
		GeneratedAt: input.GeneratedAt,
	}

	doc.Sections = append(doc.Sections, Section{
		Heading:    "Executive Summary",
		Paragraphs: []string{analyticsSummaryProse},
	})

	doc.Sections = append(doc.Sections, Section{
		Heading: "Key Performance Indicators",
		Tables: []Table{{
			Header: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Total Events", groupThousands(input.KPI.TotalEvents)},
				{"Completion Rate", fmt.Sprintf("%.2f%%", input.KPI.CompletionRate)},
				{"Error Rate", fmt.Sprintf("%.2f%%", input.KPI.ErrorRate)},
				{"Average Journey Time", fmt.Sprintf("%.2fs", input.KPI.AvgJourneyTime)},
			},
		}},
	})

	if len(input.ServicePerf) > 0 {
		rows := make([][]string, 0, len(input.ServicePerf))
		for _, perf := range input.ServicePerf {
			rows = append(rows, []string{
				perf.Service,
				fmt.Sprintf("%.2f", perf.CompletionRate),
				strconv.Itoa(perf.TotalEvents),
			})
		}
		doc.Sections = append(doc.Sections, Section{
			Heading: "Service Performance",
			Tables: []Table{{
				Header: []string{"Service", "Completion Rate (%)", "Total Events"},
				Rows:   rows,
			}},
		})
	}

	if input.KPI.TotalEvents > 0 {
		section := Section{
			Heading:    "Event Summary",
			Paragraphs: []string{fmt.Sprintf("Total events analyzed: %d", input.KPI.TotalEvents)},
		}
		if len(input.StatusDist) > 0 {
			rows := make([][]string, 0, len(input.StatusDist))
			for _, entry := range input.StatusDist {
				rows = append(rows, []string{
					entry.Status,
					strconv.Itoa(entry.Count),
					fmt.Sprintf("%.2f%%", entry.Percentage),
				})
			}
			section.Tables = []Table{{
				Header: []string{"Status", "Count", "Percentage"},
				Rows:   rows,
			}}
		}
		doc.Sections = append(doc.Sections, section)
	}

	doc.Sections = append(doc.Sections, Section{
		Heading: "Key Insights",
		Bullets: insights(input.KPI, thresholds),
	})

	return doc
}

// insights evaluates the two rule families; exactly one remark per family.
func insights(kpi analytics.KPISnapshot, thresholds InsightThresholds) []string {
	out := make([]string, 0, 2)

	switch {
	case kpi.CompletionRate >= thresholds.ExcellentCompletion:
		out = append(out, "Excellent completion rate indicates stable service performance.")
	case kpi.CompletionRate >= thresholds.GoodCompletion:
		out = append(out, "Completion rate is good but could be improved.")
	default:
		out = append(out, "Low completion rate requires immediate attention and investigation.")
	}

	if kpi.ErrorRate < thresholds.AcceptableError {
		out = append(out, "Error rate is within acceptable limits.")
	} else {
		out = append(out, "High error rate detected - review error patterns and root causes.")
	}

	return out
}

// groupThousands renders 1234567 as "1,234,567".
func groupThousands(n int) string {
	raw := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, raw = "-", raw[1:]
	}

	if len(raw) <= 3 {
		return sign + raw
	}

	var out []byte
	lead := len(raw) % 3
	if lead > 0 {
		out = append(out, raw[:lead]...)
	}
	for i := lead; i < len(raw); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, raw[i:i+3]...)
	}
	return sign + string(out)
}
