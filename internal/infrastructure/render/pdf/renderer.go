// Package pdf renders report documents to PDF with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"pulseboard/internal/domain/report"
	"pulseboard/internal/errs"
)

type Renderer struct {
	footer string
}

// NewRenderer builds a renderer. footer, when non-empty, is printed
// centered at the bottom of every page.
func NewRenderer(footer string) *Renderer {
	return &Renderer{footer: footer}
}

const (
	pageMargin   = 15.0
	lineHeight   = 6.0
	tableRowH    = 7.0
	sectionGap   = 4.0
	timestampFmt = "2006-01-02 15:04"
)

func (r *Renderer) Render(doc report.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+10)
	if r.footer != "" {
		footer := r.footer
		pdf.SetFooterFunc(func() {
			pdf.SetY(-12)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(0, 8, footer, "", 0, "C", false, 0, "")
		})
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 9, doc.Title, "", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format(timestampFmt)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	for _, section := range doc.Sections {
		r.renderSection(pdf, section)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(err, "write pdf output")
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderSection(pdf *fpdf.Fpdf, section report.Section) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, section.Heading, "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(52, 58, 64)
	for _, paragraph := range section.Paragraphs {
		pdf.MultiCell(0, lineHeight, paragraph, "", "L", false)
		pdf.Ln(1)
	}

	for _, table := range section.Tables {
		r.renderTable(pdf, table)
		pdf.Ln(2)
	}

	for _, bullet := range section.Bullets {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(5, lineHeight, "-", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, lineHeight, bullet, "", "L", false)
	}

	pdf.Ln(sectionGap)
}

func (r *Renderer) renderTable(pdf *fpdf.Fpdf, table report.Table) {
	if len(table.Header) == 0 {
		return
	}
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin
	colWidth := usable / float64(len(table.Header))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 58, 64)
	pdf.SetTextColor(255, 255, 255)
	for _, cell := range table.Header {
		pdf.CellFormat(colWidth, tableRowH, cell, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 37, 41)
	for i, row := range table.Rows {
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j := 0; j < len(table.Header); j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			pdf.CellFormat(colWidth, tableRowH, cell, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}
