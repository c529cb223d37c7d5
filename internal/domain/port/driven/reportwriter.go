package driven

import "github.com/ericfisherdev/qareport/internal/domain/model"

// ReportWriter defines the driven port for emitting the final row set.
// The aggregator hands over rows already ordered; the writer only
// serializes them.
type ReportWriter interface {
	WriteReport(rows []model.ReportRow) error
}
