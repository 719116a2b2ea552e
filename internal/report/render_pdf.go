package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

func (fileRenderer) PDF(t Table, meta Meta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 10, meta.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 8, fmt.Sprintf("Report: %s", humanize(string(meta.ReportType))), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", meta.GeneratedAt.Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(meta.Filters) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(0, 102, 204)
		pdf.CellFormat(0, 6, "Filters Applied:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(51, 51, 51)
		for _, k := range sortedKeys(meta.Filters) {
			if meta.Filters[k] == "" {
				continue
			}
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", k, meta.Filters[k]), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(t.Rows) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 8, "No data available for this report.", "", 1, "C", false, 0, "")
	} else {
		colWidth := 180.0 / float64(len(t.Columns))

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(0, 102, 204)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range t.Columns {
			pdf.CellFormat(colWidth, 7, humanize(c), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(51, 51, 51)
		for i, r := range t.Rows {
			fill := i%2 == 0
			pdf.SetFillColor(240, 240, 240)
			for _, v := range r {
				pdf.CellFormat(colWidth, 6, fmt.Sprintf("%v", v), "1", 0, "L", fill, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(153, 153, 153)
	pdf.CellFormat(0, 5, "This is a system-generated report. For questions, contact your system administrator.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
