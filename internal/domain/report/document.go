// Package report builds renderer-agnostic report documents: an ordered
// list of sections holding prose, tables and insight bullets. Builders
// never fail; absent inputs degrade to zeroed rows or "no data" lines.
package report

import "time"

type Document struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

// Section groups a heading with its content. Any of the content fields
// may be empty; renderers skip what is not there.
type Section struct {
	Heading    string
	Paragraphs []string
	Tables     []Table
	Bullets    []string
}

type Table struct {
	Header []string
	Rows   [][]string
}

// InsightThresholds drive the Key Insights rules of the analytics report.
type InsightThresholds struct {
	ExcellentCompletion float64 `toml:"excellent_completion"`
	GoodCompletion      float64 `toml:"good_completion"`
	AcceptableError     float64 `toml:"acceptable_error"`
}

func DefaultThresholds() InsightThresholds {
	return InsightThresholds{
		ExcellentCompletion: 95,
		GoodCompletion:      90,
		AcceptableError:     5,
	}
}
