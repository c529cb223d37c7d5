// Package csvreport serializes report rows to CSV.
package csvreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ericfisherdev/qareport/internal/domain/model"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReportWriter = (*Writer)(nil)

// header is the fixed column order of the report.
var header = []string{"Repository", "PR ID", "Issue Key", "Issue Type", "Title", "URL", "QA Date"}

// Writer implements the driven.ReportWriter port on top of encoding/csv.
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer emitting to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteReport writes the header and all rows. Unresolved issue key/type
// come through as empty cells; QA dates are formatted as RFC 3339.
func (w *Writer) WriteReport(rows []model.ReportRow) error {
	cw := csv.NewWriter(w.out)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Repository,
			strconv.Itoa(row.PRID),
			row.IssueKey,
			row.IssueType,
			row.Title,
			row.URL,
			row.QADate.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s#%d: %w", row.Repository, row.PRID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
