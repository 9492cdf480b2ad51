package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used on input and output.
const DateLayout = "2006-01-02"

// Record is one trading day of OHLCV data.
type Record struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// AbsChange returns |close - open|.
func (r Record) AbsChange() decimal.Decimal {
	return r.Close.Sub(r.Open).Abs()
}

// IntradayRange returns high - low.
func (r Record) IntradayRange() decimal.Decimal {
	return r.High.Sub(r.Low)
}

// Value reads the named field, including the derived ones.
func (r Record) Value(f Field) decimal.Decimal {
	switch f {
	case FieldOpen:
		return r.Open
	case FieldHigh:
		return r.High
	case FieldLow:
		return r.Low
	case FieldClose:
		return r.Close
	case FieldVolume:
		return decimal.NewFromInt(r.Volume)
	case FieldAbsChange:
		return r.AbsChange()
	case FieldIntradayRange:
		return r.IntradayRange()
	default:
		return decimal.Zero
	}
}

// SameDay reports whether the record falls on the calendar day of t.
func (r Record) SameDay(t time.Time) bool {
	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Equal compares two records by value. Decimals are compared numerically,
// so 100.50 and 100.5 are the same price.
func (r Record) Equal(o Record) bool {
	return r.SameDay(o.Date) &&
		r.Open.Equal(o.Open) &&
		r.High.Equal(o.High) &&
		r.Low.Equal(o.Low) &&
		r.Close.Equal(o.Close) &&
		r.Volume == o.Volume
}

// Validate checks the OHLC invariant: high >= low >= 0,
// high >= max(open, close) and low <= min(open, close).
// Callers decide whether a violation matters; loading never rejects one.
func (r Record) Validate() error {
	var problems []string
	if r.Low.IsNegative() {
		problems = append(problems, "low < 0")
	}
	if r.High.LessThan(r.Low) {
		problems = append(problems, "high < low")
	}
	if r.High.LessThan(decimal.Max(r.Open, r.Close)) {
		problems = append(problems, "high < max(open, close)")
	}
	if r.Low.GreaterThan(decimal.Min(r.Open, r.Close)) {
		problems = append(problems, "low > min(open, close)")
	}
	if r.Volume < 0 {
		problems = append(problems, "volume < 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("record %s: %s", r.Date.Format(DateLayout), strings.Join(problems, ", "))
	}
	return nil
}

// Day returns t truncated to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
