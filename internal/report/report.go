// Package report turns batch results into the candidate table and writes it
// to disk in one or more formats.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/candidate-form-extractor/internal/batch"
	"github.com/a3tai/candidate-form-extractor/internal/fields"
)

// Header is the first line of the table. The first column holds the
// 1-based row index and has no title.
var Header = []string{
	"",
	"(Candidate's Name)",
	"(Email, Address)",
	"(State)",
	"(Mobile Number)",
	"(Emergency Mobile Number)",
	"File_Name (Optional)",
}

// Row is one candidate as displayed in the report.
type Row struct {
	Index     int
	Name      string
	Email     string
	State     string
	Mobile    string
	Emergency string
	FileName  string
}

// Record returns the row as cells in Header order.
func (r Row) Record() []string {
	return []string{
		fmt.Sprintf("%d", r.Index),
		r.Name,
		r.Email,
		r.State,
		r.Mobile,
		r.Emergency,
		r.FileName,
	}
}

// BuildRows converts results into rows numbered from 1. Both mobile columns
// are always wrapped as "[ value ]"; an absent mobile number is written as
// "[ None ]" and other absent values stay empty.
func BuildRows(results []batch.Result) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		rows[i] = Row{
			Index:     i + 1,
			Name:      valueOf(res.Values, fields.KeyCandidateName).String(),
			Email:     valueOf(res.Values, fields.KeyEmailAddress).String(),
			State:     valueOf(res.Values, fields.KeyState).String(),
			Mobile:    bracket(valueOf(res.Values, fields.KeyMobileNumber)),
			Emergency: bracket(valueOf(res.Values, fields.KeyEmergencyMobile)),
			FileName:  res.FileName,
		}
	}
	return rows
}

func valueOf(values []fields.Value, key fields.Key) fields.Value {
	for _, v := range values {
		if v.Key == key {
			return v
		}
	}
	return fields.Value{Key: key}
}

// AbsentMobile is the text placed inside the brackets when a mobile number
// was not found.
const AbsentMobile = "None"

func bracket(v fields.Value) string {
	text := v.Text
	if !v.Found {
		text = AbsentMobile
	}
	return "[ " + text + " ]"
}

// Report is the table plus the run counters.
type Report struct {
	Rows    []Row
	Total   int
	Success int
	Failed  int
}

// New builds a report from a batch summary.
func New(summary *batch.Summary) *Report {
	return &Report{
		Rows:    BuildRows(summary.Results),
		Total:   summary.Total,
		Success: summary.Success,
		Failed:  summary.Failed,
	}
}

// Exporter writes a report to a file.
type Exporter interface {
	Export(report *Report, filename string) error
	Extension() string
}

// Supported format names.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExporterFor returns the exporter for a format name.
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return &CSVExporter{}, nil
	case FormatXLSX:
		return &XLSXExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use csv or xlsx)", format)
	}
}

// ParseFormats splits a comma separated list such as "csv,xlsx", dropping
// blanks and duplicates.
func ParseFormats(list string) ([]string, error) {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if _, err := ExporterFor(f); err != nil {
			return nil, err
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return formats, nil
}

// Writer saves reports as <dir>/<name>.<ext> for each configured format.
type Writer struct {
	dir       string
	name      string
	exporters []Exporter
}

// NewWriter validates formats and returns a writer for them.
func NewWriter(dir, name string, formats []string) (*Writer, error) {
	w := &Writer{dir: dir, name: name}
	for _, f := range formats {
		exp, err := ExporterFor(f)
		if err != nil {
			return nil, err
		}
		w.exporters = append(w.exporters, exp)
	}
	if len(w.exporters) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return w, nil
}

// Write creates the output directory if needed and exports the report in
// every format. It returns the files written.
func (w *Writer) Write(report *Report) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	var written []string
	for _, exp := range w.exporters {
		filename := filepath.Join(w.dir, w.name+exp.Extension())
		if err := exp.Export(report, filename); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", filename, err)
		}
		written = append(written, filename)
	}
	return written, nil
}
