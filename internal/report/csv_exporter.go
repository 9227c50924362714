package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVExporter writes the candidate table as comma separated values.
type CSVExporter struct{}

// Extension implements Exporter.
func (e *CSVExporter) Extension() string { return ".csv" }

// Export implements Exporter. Only the table is written; the counters are
// printed by the caller.
func (e *CSVExporter) Export(report *Report, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range report.Rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("write row %d: %w", row.Index, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
