package query

import (
	"testing"

	"StockAnalysis/internal/calculator"
	"StockAnalysis/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarterData() []model.Record {
	return []model.Record{
		bar("2013-03-29", 10, 11, 9, 10, 100),
		bar("2012-12-31", 4, 5, 3, 4, 50),
		bar("2013-01-02", 6, 7, 5, 6, 70),
		bar("2013-04-01", 20, 21, 19, 20, 200),
		bar("2013-01-31", 8, 9, 7, 9, 80),
	}
}

func TestGroupBy_MonthlyMeanCloseOrdered(t *testing.T) {
	got, err := MonthlyMeanClose(quarterData())
	require.NoError(t, err)

	keys := make([]string, len(got))
	for i, b := range got {
		keys[i] = b.Key.Label(Month)
	}
	assert.Equal(t, []string{"2012-12", "2013-01", "2013-03", "2013-04"}, keys)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "7.5", got[1].Value.String())
}

func TestGroupBy_Quarterly(t *testing.T) {
	got, err := QuarterlyMeanClose(quarterData())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2012-Q4", got[0].Key.Label(Quarter))
	assert.Equal(t, "2013-Q1", got[1].Key.Label(Quarter))
	assert.Equal(t, 3, got[1].Count)
	assert.Equal(t, "8.3333333333333333", got[1].Value.String())
	assert.Equal(t, "2013-Q2", got[2].Key.Label(Quarter))
}

func TestGroupBy_Yearly(t *testing.T) {
	closes, err := YearlyMeanClose(quarterData())
	require.NoError(t, err)
	require.Len(t, closes, 2)
	assert.Equal(t, "2012", closes[0].Key.Label(Year))
	assert.Equal(t, "4", closes[0].Value.String())
	assert.Equal(t, "11.25", closes[1].Value.String())

	vols, err := YearlyMeanVolume(quarterData())
	require.NoError(t, err)
	assert.Equal(t, "112.5", vols[1].Value.String())
}

func TestMonthlyTotalVolume_MatchesMean(t *testing.T) {
	data := series(400, 7)
	buckets, err := MonthlyTotalVolume(data)
	require.NoError(t, err)

	total := decimal.Zero
	count := 0
	for i, b := range buckets {
		total = total.Add(b.Value)
		count += b.Count
		if i > 0 {
			assert.True(t, buckets[i-1].Key.Less(b.Key))
		}
	}
	assert.Equal(t, len(data), count)

	mean, err := MeanVolume(data)
	require.NoError(t, err)
	assert.InDelta(t, mean*float64(len(data)), total.InexactFloat64(), 1e-3)
}

func TestGroupBy_Errors(t *testing.T) {
	_, err := GroupBy(nil, Month, model.FieldClose, Mean)
	assert.ErrorIs(t, err, calculator.ErrEmpty)

	_, err = GroupBy(quarterData(), Period(9), model.FieldClose, Mean)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GroupBy(quarterData(), Month, model.FieldClose, Aggregation(5))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
