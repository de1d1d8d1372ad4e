// Package report renders stored diagnoses as JSON, CSV, PDF and PNG.
package report

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/store"
)

// Export formats.
const (
	FormatJSON       = "json"
	FormatCSV        = "csv"
	FormatAnswersCSV = "answers.csv"
	FormatPDF        = "pdf"
	FormatChart      = "chart.png"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatCSV, FormatAnswersCSV, FormatPDF, FormatChart}

var contentTypes = map[string]string{
	FormatJSON:       "application/json; charset=utf-8",
	FormatCSV:        "text/csv; charset=utf-8",
	FormatAnswersCSV: "text/csv; charset=utf-8",
	FormatPDF:        "application/pdf",
	FormatChart:      "image/png",
}

// ErrUnknownFormat is wrapped in an ExportError for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// defaultBaseline stands in for a category baseline that is missing from
// both the record and the catalog.
const defaultBaseline = 50

// ExportError reports which format failed.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Options configures an Exporter.
type Options struct {
	Catalog *catalog.Catalog
	Fonts   Fonts
	Logger  *zap.Logger

	// Now stamps exports. Defaults to time.Now.
	Now func() time.Time
}

// Exporter renders diagnosis records. It is safe for concurrent use.
type Exporter struct {
	cat  *catalog.Catalog
	font loadedFont
	log  *zap.Logger
	now  func() time.Time
}

// New creates an Exporter. Font problems are logged once here and never
// fail an export.
func New(opts Options) *Exporter {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "report"))

	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		cat:  cat,
		font: loadFonts(opts.Fonts, log),
		log:  log,
		now:  now,
	}
}

// Export renders rec in the named format.
func (e *Exporter) Export(format string, rec *store.Diagnosis) ([]byte, error) {
	switch format {
	case FormatJSON:
		return e.JSON(rec)
	case FormatCSV:
		return e.SummaryCSV(rec)
	case FormatAnswersCSV:
		return e.AnswersCSV(rec)
	case FormatPDF:
		return e.PDF(rec)
	case FormatChart:
		return e.Chart(rec)
	}
	return nil, &ExportError{Format: format, Err: ErrUnknownFormat}
}

// ContentType returns the MIME type for a format, or "" if unknown.
func ContentType(format string) string {
	return contentTypes[format]
}

// Filename suggests a download name for rec in the given format.
func Filename(rec *store.Diagnosis, format string) string {
	return fmt.Sprintf("diagnosis-%d.%s", rec.ID, format)
}

func (e *Exporter) fail(format string, err error) error {
	e.log.Error("export failed", zap.String("format", format), zap.Error(err))
	return &ExportError{Format: format, Err: err}
}

func (e *Exporter) categoryName(key string) string {
	return e.cat.DisplayName(catalog.CategoryKey(key))
}

func (e *Exporter) baseline(cr store.CategoryResult) int {
	if cr.Baseline != nil {
		return *cr.Baseline
	}
	if b, ok := e.cat.Baseline(catalog.CategoryKey(cr.Key)); ok {
		return b
	}
	return defaultBaseline
}

// diff prefers the stored diff and recomputes it against the fallback
// baseline otherwise.
func (e *Exporter) diff(cr store.CategoryResult) int {
	if cr.Diff != nil {
		return *cr.Diff
	}
	return cr.Score - e.baseline(cr)
}
