package recorder

import (
	"time"

	"StockAnalysis/internal/report"
)

// Run is one finished report run.
type Run struct {
	ID        string
	Timestamp time.Time
	Source    string
	Summary   *report.Summary
}

// Recorder persists report history for later comparison.
type Recorder interface {
	RecordRun(run *Run) error
	Close() error
}
