package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// fileRenderer renders tables to xlsx (excelize) and PDF (gofpdf).
type fileRenderer struct{}

// NewRenderer returns the default report file renderer.
func NewRenderer() Renderer {
	return fileRenderer{}
}

func (fileRenderer) Spreadsheet(t Table, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	writeRow := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}

	header := []([]any){
		{meta.Title},
		{fmt.Sprintf("Report Type: %s", humanize(string(meta.ReportType)))},
		{fmt.Sprintf("Generated: %s", meta.GeneratedAt.Format("2006-01-02 15:04:05"))},
		{},
	}
	for _, h := range header {
		if err := writeRow(h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	if len(meta.Filters) > 0 {
		if err := writeRow([]any{"Filters:"}); err != nil {
			return nil, err
		}
		for _, k := range sortedKeys(meta.Filters) {
			if meta.Filters[k] == "" {
				continue
			}
			if err := writeRow([]any{fmt.Sprintf("%s: %s", k, meta.Filters[k])}); err != nil {
				return nil, err
			}
		}
		if err := writeRow(nil); err != nil {
			return nil, err
		}
	}

	headerRow := row
	cols := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = humanize(c)
	}
	if err := writeRow(cols); err != nil {
		return nil, fmt.Errorf("write column row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0066CC"}},
	})
	if err == nil {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), headerRow)
		_ = f.SetCellStyle(sheet, first, last, style)
	}

	for _, r := range t.Rows {
		if err := writeRow(r); err != nil {
			return nil, fmt.Errorf("write data row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// humanize turns a snake_case column name into a title-cased label.
func humanize(s string) string {
	parts := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
