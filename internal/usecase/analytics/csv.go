package analytics

import (
	"encoding/csv"
	"io"
	"strconv"

	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

const csvTimeLayout = "2006-01-02 15:04:05"

// WriteEventsCSV streams the raw filtered row-set as CSV, columns exactly
// as the query/filter layer returns them. Nullable fields render empty.
func WriteEventsCSV(w io.Writer, rows []ports.EventRow) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "service", "channel", "action", "status", "timestamp", "journey_time", "error_message"}
	if err := writer.Write(header); err != nil {
		return errs.Wrap(err, "write csv header")
	}

	for _, row := range rows {
		journeyTime := ""
		if row.JourneyTime != nil {
			journeyTime = strconv.FormatFloat(*row.JourneyTime, 'f', 2, 64)
		}
		errorMessage := ""
		if row.ErrorMessage != nil {
			errorMessage = *row.ErrorMessage
		}

		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Service,
			row.Channel,
			row.Action,
			row.Status,
			row.Timestamp.Format(csvTimeLayout),
			journeyTime,
			errorMessage,
		}
		if err := writer.Write(record); err != nil {
			return errs.Wrap(err, "write csv row")
		}
	}

	writer.Flush()
	return errs.Wrap(writer.Error(), "flush csv")
}

// WriteTestCasesCSV streams the UAT test case row-set as CSV.
func WriteTestCasesCSV(w io.Writer, rows []ports.TestCaseRow) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "service", "title", "description", "expected_result", "status", "created_at"}
	if err := writer.Write(header); err != nil {
		return errs.Wrap(err, "write csv header")
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Service,
			row.Title,
			row.Description,
			row.ExpectedResult,
			row.Status,
			row.CreatedAt.Format(csvTimeLayout),
		}
		if err := writer.Write(record); err != nil {
			return errs.Wrap(err, "write csv row")
		}
	}

	writer.Flush()
	return errs.Wrap(writer.Error(), "flush csv")
}

// WriteDefectsCSV streams the defect row-set as CSV.
func WriteDefectsCSV(w io.Writer, rows []ports.DefectRow) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "service", "title", "severity", "status", "created_at", "resolved_at", "test_case_id"}
	if err := writer.Write(header); err != nil {
		return errs.Wrap(err, "write csv header")
	}

	for _, row := range rows {
		testCaseID := ""
		if row.TestCaseID != nil {
			testCaseID = strconv.FormatUint(uint64(*row.TestCaseID), 10)
		}
		resolvedAt := ""
		if row.ResolvedAt != nil {
			resolvedAt = row.ResolvedAt.Format(csvTimeLayout)
		}

		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Service,
			row.Title,
			row.Severity,
			row.Status,
			row.CreatedAt.Format(csvTimeLayout),
			resolvedAt,
			testCaseID,
		}
		if err := writer.Write(record); err != nil {
			return errs.Wrap(err, "write csv row")
		}
	}

	writer.Flush()
	return errs.Wrap(writer.Error(), "flush csv")
}
