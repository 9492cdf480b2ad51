package calculator

import (
	"github.com/shopspring/decimal"
)

// Extremes scans values once and returns the largest and smallest.
func Extremes(values []decimal.Decimal) (high, low decimal.Decimal, err error) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero, ErrEmpty
	}
	high, low = values[0], values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(high) {
			high = v
		}
		if v.LessThan(low) {
			low = v
		}
	}
	return high, low, nil
}

// Span returns max(highs) - min(lows), the price range covered by a set of bars.
func Span(highs, lows []decimal.Decimal) (decimal.Decimal, error) {
	high, _, err := Extremes(highs)
	if err != nil {
		return decimal.Zero, err
	}
	_, low, err := Extremes(lows)
	if err != nil {
		return decimal.Zero, err
	}
	return high.Sub(low), nil
}

// Sum adds values exactly.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// MeanDecimal returns the exact sum divided by the count, rounded to
// decimal.DivisionPrecision fractional digits.
func MeanDecimal(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, ErrEmpty
	}
	return Sum(values).Div(decimal.NewFromInt(int64(len(values)))), nil
}
