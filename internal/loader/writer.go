package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"StockAnalysis/internal/model"
)

// Write serializes records in the layout Parse reads back.
func Write(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(model.DateLayout),
			r.Open.String(),
			r.High.String(),
			r.Low.String(),
			r.Close.String(),
			strconv.FormatInt(r.Volume, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", row[0], err)
		}
	}
	cw.Flush()
	return cw.Error()
}
