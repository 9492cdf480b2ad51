// Package query holds the read-only questions asked of a daily OHLCV series.
// Every function is pure: the input slice is never modified and no result
// aliases it. Queries over zero records fail with calculator.ErrEmpty.
package query

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"StockAnalysis/internal/calculator"
	"StockAnalysis/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrNoMatch         = errors.New("no record matches")
	ErrInvalidArgument = errors.New("invalid argument")
)

// DateVolume pairs a trading day with its volume.
type DateVolume struct {
	Date   time.Time
	Volume int64
}

// Outliers is the result of VolumeOutliers together with the threshold used.
type Outliers struct {
	Mean      float64
	StdDev    float64
	Sigma     float64
	Threshold float64
	Points    []DateVolume
}

// MaxClose returns the highest close.
func MaxClose(data []model.Record) (decimal.Decimal, error) {
	high, _, err := calculator.Extremes(column(data, model.FieldClose))
	return high, err
}

// MinVolumeDate returns the date of the smallest volume. Ties go to the
// earliest record in input order.
func MinVolumeDate(data []model.Record) (time.Time, error) {
	if len(data) == 0 {
		return time.Time{}, calculator.ErrEmpty
	}
	best := 0
	for i := 1; i < len(data); i++ {
		if data[i].Volume < data[best].Volume {
			best = i
		}
	}
	return data[best].Date, nil
}

// PriceRangeOnDate returns max(high) - min(low) over the records dated day.
func PriceRangeOnDate(data []model.Record, day time.Time) (decimal.Decimal, error) {
	if len(data) == 0 {
		return decimal.Zero, calculator.ErrEmpty
	}
	var highs, lows []decimal.Decimal
	for _, r := range data {
		if r.SameDay(day) {
			highs = append(highs, r.High)
			lows = append(lows, r.Low)
		}
	}
	if len(highs) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNoMatch, day.Format(model.DateLayout))
	}
	return calculator.Span(highs, lows)
}

// CountCloseAboveOpen counts the days that closed strictly higher than they opened.
func CountCloseAboveOpen(data []model.Record) int {
	n := 0
	for _, r := range data {
		if r.Close.GreaterThan(r.Open) {
			n++
		}
	}
	return n
}

// CountCloseAtOrBelowOpen is the complement of CountCloseAboveOpen.
func CountCloseAtOrBelowOpen(data []model.Record) int {
	n := 0
	for _, r := range data {
		if r.Close.LessThanOrEqual(r.Open) {
			n++
		}
	}
	return n
}

// MeanVolume returns the arithmetic mean of volume.
func MeanVolume(data []model.Record) (float64, error) {
	return calculator.Mean(floats(data, model.FieldVolume))
}

// VolumeOutliers returns the days whose volume is strictly greater than
// mean + sigma * s, where s is the sample standard deviation (n-1).
// Points keep input order.
func VolumeOutliers(data []model.Record, sigma float64) (*Outliers, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("%w: sigma %v", ErrInvalidArgument, sigma)
	}
	vols := floats(data, model.FieldVolume)
	mean, err := calculator.Mean(vols)
	if err != nil {
		return nil, err
	}
	sd, err := calculator.SampleStdDev(vols)
	if err != nil {
		return nil, err
	}

	out := &Outliers{Mean: mean, StdDev: sd, Sigma: sigma, Threshold: mean + sigma*sd}
	for _, r := range data {
		if float64(r.Volume) > out.Threshold {
			out.Points = append(out.Points, DateVolume{Date: r.Date, Volume: r.Volume})
		}
	}
	return out, nil
}

// Correlation returns the Pearson correlation between two fields.
func Correlation(data []model.Record, a, b model.Field) (float64, error) {
	return calculator.Pearson(floats(data, a), floats(data, b))
}

// DateOfMax returns every date on which field reaches its maximum, in input
// order. Callers wanting a single answer take the first element.
func DateOfMax(data []model.Record, field model.Field) ([]time.Time, error) {
	high, _, err := calculator.Extremes(column(data, field))
	if err != nil {
		return nil, err
	}
	var dates []time.Time
	for _, r := range data {
		if r.Value(field).Equal(high) {
			dates = append(dates, r.Date)
		}
	}
	return dates, nil
}

// CountMaxHighHits counts the records whose high equals the overall maximum high.
func CountMaxHighHits(data []model.Record) (int, error) {
	dates, err := DateOfMax(data, model.FieldHigh)
	if err != nil {
		return 0, err
	}
	return len(dates), nil
}

// FilterWeekdays drops Saturday and Sunday records.
func FilterWeekdays(data []model.Record) []model.Record {
	out := make([]model.Record, 0, len(data))
	for _, r := range data {
		switch r.Date.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		out = append(out, r)
	}
	return out
}

// TopNByVolume returns up to n days ordered by volume, highest first.
// Equal volumes keep input order.
func TopNByVolume(data []model.Record, n int) ([]DateVolume, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n = %d", ErrInvalidArgument, n)
	}
	if len(data) == 0 {
		return nil, calculator.ErrEmpty
	}
	all := make([]DateVolume, len(data))
	for i, r := range data {
		all[i] = DateVolume{Date: r.Date, Volume: r.Volume}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Volume > all[j].Volume })
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// Preview returns a copy of the first n records.
func Preview(data []model.Record, n int) []model.Record {
	if n < 0 {
		n = 0
	}
	if n > len(data) {
		n = len(data)
	}
	out := make([]model.Record, n)
	copy(out, data[:n])
	return out
}

// Column describes one loaded column.
type Column struct {
	Name string
	Type string
}

// Schema describes the columns every loaded record carries.
func Schema() []Column {
	return []Column{
		{Name: "date", Type: "date"},
		{Name: "open", Type: "decimal"},
		{Name: "high", Type: "decimal"},
		{Name: "low", Type: "decimal"},
		{Name: "close", Type: "decimal"},
		{Name: "volume", Type: "int64"},
	}
}

func column(data []model.Record, f model.Field) []decimal.Decimal {
	out := make([]decimal.Decimal, len(data))
	for i, r := range data {
		out[i] = r.Value(f)
	}
	return out
}

func floats(data []model.Record, f model.Field) []float64 {
	out := make([]float64, len(data))
	for i, r := range data {
		if f == model.FieldVolume {
			out[i] = float64(r.Volume)
			continue
		}
		out[i] = r.Value(f).InexactFloat64()
	}
	return out
}
