package query

import (
	"fmt"
	"sort"

	"StockAnalysis/internal/calculator"
	"StockAnalysis/internal/model"

	"github.com/shopspring/decimal"
)

// Period is a calendar grouping.
type Period int

const (
	Month Period = iota
	Quarter
	Year
)

func (p Period) String() string {
	switch p {
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// Aggregation folds a bucket's values into one.
type Aggregation int

const (
	Mean Aggregation = iota
	Sum
)

func (a Aggregation) String() string {
	switch a {
	case Mean:
		return "mean"
	case Sum:
		return "sum"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// PeriodKey identifies a bucket. Sub is the month (1-12) or quarter (1-4),
// and zero for yearly buckets.
type PeriodKey struct {
	Year int
	Sub  int
}

func (k PeriodKey) Less(o PeriodKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Sub < o.Sub
}

// Label renders the key as 2013-02, 2013-Q1 or 2013.
func (k PeriodKey) Label(p Period) string {
	switch p {
	case Month:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Sub)
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", k.Year, k.Sub)
	default:
		return fmt.Sprintf("%04d", k.Year)
	}
}

// Bucket is one group of a GroupBy result.
type Bucket struct {
	Key   PeriodKey
	Count int
	Value decimal.Decimal
}

// GroupBy buckets records by calendar period and aggregates field within each.
// Buckets are returned in ascending key order. Sums are exact; means carry
// decimal.DivisionPrecision fractional digits.
func GroupBy(data []model.Record, period Period, field model.Field, agg Aggregation) ([]Bucket, error) {
	if len(data) == 0 {
		return nil, calculator.ErrEmpty
	}
	if period < Month || period > Year {
		return nil, fmt.Errorf("%w: period %v", ErrInvalidArgument, period)
	}
	if agg != Mean && agg != Sum {
		return nil, fmt.Errorf("%w: aggregation %v", ErrInvalidArgument, agg)
	}

	groups := make(map[PeriodKey][]decimal.Decimal)
	for _, r := range data {
		k := keyOf(r, period)
		groups[k] = append(groups[k], r.Value(field))
	}

	buckets := make([]Bucket, 0, len(groups))
	for k, vals := range groups {
		b := Bucket{Key: k, Count: len(vals)}
		switch agg {
		case Sum:
			b.Value = calculator.Sum(vals)
		case Mean:
			b.Value, _ = calculator.MeanDecimal(vals)
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key.Less(buckets[j].Key) })
	return buckets, nil
}

func keyOf(r model.Record, p Period) PeriodKey {
	y, m, _ := r.Date.Date()
	switch p {
	case Month:
		return PeriodKey{Year: y, Sub: int(m)}
	case Quarter:
		return PeriodKey{Year: y, Sub: (int(m)-1)/3 + 1}
	default:
		return PeriodKey{Year: y}
	}
}

// MonthlyMeanClose is the mean close per (year, month).
func MonthlyMeanClose(data []model.Record) ([]Bucket, error) {
	return GroupBy(data, Month, model.FieldClose, Mean)
}

// MonthlyTotalVolume is the total volume per (year, month).
func MonthlyTotalVolume(data []model.Record) ([]Bucket, error) {
	return GroupBy(data, Month, model.FieldVolume, Sum)
}

// YearlyMeanClose is the mean close per year.
func YearlyMeanClose(data []model.Record) ([]Bucket, error) {
	return GroupBy(data, Year, model.FieldClose, Mean)
}

// QuarterlyMeanClose is the mean close per (year, quarter).
func QuarterlyMeanClose(data []model.Record) ([]Bucket, error) {
	return GroupBy(data, Quarter, model.FieldClose, Mean)
}

// YearlyMeanVolume is the mean volume per year.
func YearlyMeanVolume(data []model.Record) ([]Bucket, error) {
	return GroupBy(data, Year, model.FieldVolume, Mean)
}
