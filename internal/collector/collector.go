package collector

import (
	"fmt"
	"log"

	"StockAnalysis/internal/model"
)

// Collector loads a dataset and reports on its quality. It never drops or
// reorders records; problems are logged for the operator.
type Collector struct {
	Source Source
}

// NewCollector creates a new Collector.
func NewCollector(src Source) *Collector {
	return &Collector{Source: src}
}

// Collect loads the records and logs every OHLC invariant violation and
// every date that does not strictly follow its predecessor.
func (c *Collector) Collect() ([]model.Record, error) {
	records, err := c.Source.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if len(records) == 0 {
		log.Printf("[WARN] %s returned no records", c.Source.Name())
		return records, nil
	}

	q := Inspect(records)
	for _, err := range q.Invalid {
		log.Printf("[WARN] %v", err)
	}
	if q.Duplicates > 0 || q.Conflicts > 0 || q.OutOfOrder > 0 {
		log.Printf("[WARN] %s: %d repeated rows, %d conflicting rows for one date, %d out-of-order dates",
			c.Source.Name(), q.Duplicates, q.Conflicts, q.OutOfOrder)
	}
	log.Printf("[INFO] loaded %d records from %s (%s to %s)", len(records), c.Source.Name(),
		records[0].Date.Format(model.DateLayout), records[len(records)-1].Date.Format(model.DateLayout))
	return records, nil
}

// Quality summarises the problems found in a dataset. Duplicates counts rows
// identical to their predecessor; Conflicts counts rows sharing the
// predecessor's date with different values.
type Quality struct {
	Invalid    []error
	Duplicates int
	Conflicts  int
	OutOfOrder int
}

// Inspect checks every record against the OHLC invariant and the ordering of dates.
func Inspect(records []model.Record) Quality {
	var q Quality
	for i, r := range records {
		if err := r.Validate(); err != nil {
			q.Invalid = append(q.Invalid, err)
		}
		if i == 0 {
			continue
		}
		prev := records[i-1]
		switch {
		case r.Equal(prev):
			q.Duplicates++
		case r.SameDay(prev.Date):
			q.Conflicts++
		case r.Date.Before(prev.Date):
			q.OutOfOrder++
		}
	}
	return q
}
