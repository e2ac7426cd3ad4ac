package report

import (
	"fmt"
	"strconv"
	"time"

	"pulseboard/internal/domain/analytics"
)

type UATInput struct {
	TotalTestCases   int
	TestStatusDist   []analytics.LabelCount
	TotalDefects     int
	SeverityDist     []analytics.LabelCount
	DefectStatusDist []analytics.LabelCount
	GeneratedAt      time.Time
}

// BuildUAT assembles the UAT & testing report document: test case summary
// first, then defect summary. Empty inputs produce "no data" lines instead
// of empty tables.
func BuildUAT(input UATInput) Document {
	doc := Document{
		Title:       "UAT & Regression Testing Report",
		GeneratedAt: input.GeneratedAt,
	}

	testSection := Section{Heading: "Test Cases Summary"}
	if input.TotalTestCases > 0 {
		testSection.Paragraphs = []string{fmt.Sprintf("Total Test Cases: %d", input.TotalTestCases)}
		if table, ok := labelCountTable("Status", input.TestStatusDist); ok {
			testSection.Tables = append(testSection.Tables, table)
		}
	} else {
		testSection.Paragraphs = []string{"No test cases data available."}
	}
	doc.Sections = append(doc.Sections, testSection)

	defectSection := Section{Heading: "Defects Summary"}
	if input.TotalDefects > 0 {
		defectSection.Paragraphs = []string{fmt.Sprintf("Total Defects: %d", input.TotalDefects)}
		if table, ok := labelCountTable("Severity", input.SeverityDist); ok {
			defectSection.Tables = append(defectSection.Tables, table)
		}
		if table, ok := labelCountTable("Status", input.DefectStatusDist); ok {
			defectSection.Tables = append(defectSection.Tables, table)
		}
	} else {
		defectSection.Paragraphs = []string{"No defects data available."}
	}
	doc.Sections = append(doc.Sections, defectSection)

	return doc
}

func labelCountTable(label string, entries []analytics.LabelCount) (Table, bool) {
	if len(entries) == 0 {
		return Table{}, false
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.Label, strconv.Itoa(entry.Count)})
	}
	return Table{
		Header: []string{label, "Count"},
		Rows:   rows,
	}, true
}
