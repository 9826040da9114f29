package sheets

import (
	"context"

	"ecospend/internal/core"
)

// Ports for outbound report sinks.
type (
	// ReportWriter appends one monthly result row to the report.
	ReportWriter interface {
		AppendResult(ctx context.Context, analysisID int64, r core.MonthlyResult) (rowRef string, err error)
	}
)
