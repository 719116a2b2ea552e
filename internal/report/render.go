package report

import "time"

// Meta carries presentation details for exported reports.
type Meta struct {
	Title       string
	ReportType  Type
	GeneratedAt time.Time
	// Filters are shown as "key: value" lines; empty values are skipped.
	Filters map[string]string
}

// Renderer turns a Table into downloadable bytes. Rendering is a pure
// transformation with no side effects on core state.
type Renderer interface {
	Spreadsheet(t Table, meta Meta) ([]byte, error)
	PDF(t Table, meta Meta) ([]byte, error)
}
