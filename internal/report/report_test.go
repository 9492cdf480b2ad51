package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"StockAnalysis/internal/calculator"
	"StockAnalysis/internal/model"
	"StockAnalysis/internal/query"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(date string, open, high, low, close string, volume int64) model.Record {
	d, _ := time.Parse(model.DateLayout, date)
	return model.Record{
		Date:   d,
		Open:   decimal.RequireFromString(open),
		High:   decimal.RequireFromString(high),
		Low:    decimal.RequireFromString(low),
		Close:  decimal.RequireFromString(close),
		Volume: volume,
	}
}

func sample() []model.Record {
	return []model.Record{
		bar("2013-02-14", "100", "105", "98", "103", 3000000),
		bar("2013-02-15", "103", "110", "102", "108", 5000000),
		bar("2013-02-16", "108", "109", "107", "108", 1000000),
		bar("2013-03-18", "107", "110", "101", "102", 5000000),
		bar("2013-04-19", "102", "104", "100", "101", 2000000),
	}
}

func TestRun_WritesEveryBlockInOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetDate = time.Date(2013, 2, 15, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	sum, err := NewRunner(opts).Run(&buf, sample())
	require.NoError(t, err)

	out := buf.String()
	require.Len(t, sum.Sections, 20)
	last := -1
	for _, s := range sum.Sections {
		i := strings.Index(out, "== "+s.Title+" ==")
		require.GreaterOrEqual(t, i, 0, "missing block %q", s.Title)
		assert.Greater(t, i, last, "block %q out of order", s.Title)
		last = i
	}

	assert.Equal(t, "Schema", sum.Sections[0].Title)
	assert.Equal(t, "Q18. Average volume by year", sum.Sections[19].Title)
	assert.Contains(t, out, "== Q3. Price range on 2013-02-15 ==\n8\n")
	assert.Contains(t, out, "== Q1. Highest closing price ==\n108\n")
	assert.Contains(t, out, "== Q2. Date with the lowest volume traded ==\n2013-02-16\n")
	assert.Contains(t, out, "2013-02-15 (tied with 1 more: 2013-02-16)")
	assert.Contains(t, out, "3,200,000")
	assert.Contains(t, out, "2013-Q2")

	assert.Equal(t, 5, sum.RecordCount)
	assert.Equal(t, "108", sum.MaxClose.String())
	assert.InDelta(t, 3200000.0, sum.MeanVolume, 1e-6)
	assert.Zero(t, sum.OutlierCount)
}

func TestRun_DefaultTargetIsLastDate(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewRunner(DefaultOptions()).Run(&buf, sample())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "== Q3. Price range on 2013-04-19 ==\n4\n")
}

func TestRun_EmptyDatasetAborts(t *testing.T) {
	var buf bytes.Buffer
	sum, err := NewRunner(DefaultOptions()).Run(&buf, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, calculator.ErrEmpty)
	assert.True(t, strings.HasPrefix(err.Error(), "Q1. Highest closing price"))
	assert.NotContains(t, buf.String(), "0001-01-01")
	assert.Len(t, sum.Sections, 2, "schema and preview are written before the first query")
}

func TestStepTitles_EmptyDatasetWithoutTarget(t *testing.T) {
	r := NewRunner(DefaultOptions())
	var titles []string
	for _, s := range r.steps(nil, &Summary{}) {
		titles = append(titles, s.title)
	}
	assert.Contains(t, titles, "Q3. Price range on the last date")
	for _, title := range titles {
		assert.NotContains(t, title, "0001-01-01")
	}
}

func TestRun_MissingTargetDate(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewRunner(opts).Run(&bytes.Buffer{}, sample())
	assert.True(t, errors.Is(err, query.ErrNoMatch))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_WriteFailure(t *testing.T) {
	_, err := NewRunner(DefaultOptions()).Run(failingWriter{}, sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFormatDates(t *testing.T) {
	d := time.Date(2013, 2, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "(none)\n", formatDates(nil))
	assert.Equal(t, "2013-02-15\n", formatDates([]time.Time{d}))
	assert.Equal(t, "2013-02-15 (tied with 2 more: 2013-02-16, 2013-02-17)\n",
		formatDates([]time.Time{d, d.AddDate(0, 0, 1), d.AddDate(0, 0, 2)}))
}
