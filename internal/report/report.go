package report

import (
	"fmt"
	"io"
	"log"
	"time"

	"StockAnalysis/internal/model"
	"StockAnalysis/internal/query"

	"github.com/shopspring/decimal"
)

// Options parameterise the report battery.
type Options struct {
	// TargetDate selects the day for the price-range question.
	// Zero means the date of the last record.
	TargetDate   time.Time
	TopN         int
	OutlierSigma float64
	PreviewRows  int
	WeekdayRows  int
	CorrelationA model.Field
	CorrelationB model.Field
}

// DefaultOptions mirrors the questions as originally asked.
func DefaultOptions() Options {
	return Options{
		TopN:         5,
		OutlierSigma: 3,
		PreviewRows:  5,
		WeekdayRows:  20,
		CorrelationA: model.FieldOpen,
		CorrelationB: model.FieldClose,
	}
}

// Section is one rendered block of the report.
type Section struct {
	Title string
	Body  string
}

// Summary keeps the headline numbers of a run alongside every rendered block.
type Summary struct {
	RecordCount  int
	MaxClose     decimal.Decimal
	MeanVolume   float64
	Correlation  float64
	OutlierCount int
	Sections     []Section
}

// Runner executes the report battery against one dataset.
type Runner struct {
	Options Options
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	return &Runner{Options: opts}
}

type step struct {
	title  string
	render func() (string, error)
}

// Run writes the schema, a preview and every question's answer to w, one block
// at a time. The first failing question aborts the run.
func (r *Runner) Run(w io.Writer, data []model.Record) (*Summary, error) {
	sum := &Summary{RecordCount: len(data)}
	for _, s := range r.steps(data, sum) {
		body, err := s.render()
		if err != nil {
			return sum, fmt.Errorf("%s: %w", s.title, err)
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n%s\n", s.title, body); err != nil {
			return sum, fmt.Errorf("write %s: %w", s.title, err)
		}
		sum.Sections = append(sum.Sections, Section{Title: s.title, Body: body})
	}
	log.Printf("[INFO] report finished: %d records, %d sections", sum.RecordCount, len(sum.Sections))
	return sum, nil
}

func (r *Runner) steps(data []model.Record, sum *Summary) []step {
	opts := r.Options
	target := opts.TargetDate
	if target.IsZero() && len(data) > 0 {
		target = data[len(data)-1].Date
	}

	return []step{
		{"Schema", func() (string, error) {
			return formatSchema(query.Schema()), nil
		}},
		{fmt.Sprintf("Preview (first %d rows)", opts.PreviewRows), func() (string, error) {
			return formatRecords(query.Preview(data, opts.PreviewRows)), nil
		}},
		{"Q1. Highest closing price", func() (string, error) {
			v, err := query.MaxClose(data)
			if err != nil {
				return "", err
			}
			sum.MaxClose = v
			return v.String() + "\n", nil
		}},
		{"Q2. Date with the lowest volume traded", func() (string, error) {
			d, err := query.MinVolumeDate(data)
			if err != nil {
				return "", err
			}
			return formatDate(d) + "\n", nil
		}},
		{"Q3. Price range on " + targetLabel(target), func() (string, error) {
			v, err := query.PriceRangeOnDate(data, target)
			if err != nil {
				return "", err
			}
			return v.String() + "\n", nil
		}},
		{"Q4. Days closing higher than opening", func() (string, error) {
			up := query.CountCloseAboveOpen(data)
			rest := query.CountCloseAtOrBelowOpen(data)
			return fmt.Sprintf("%d (of %d; %d closed at or below open)\n", up, len(data), rest), nil
		}},
		{"Q5. Average volume traded", func() (string, error) {
			v, err := query.MeanVolume(data)
			if err != nil {
				return "", err
			}
			sum.MeanVolume = v
			return formatVolumeFloat(v) + "\n", nil
		}},
		{fmt.Sprintf("Q6. Volume outliers (> mean + %gσ)", opts.OutlierSigma), func() (string, error) {
			out, err := query.VolumeOutliers(data, opts.OutlierSigma)
			if err != nil {
				return "", err
			}
			sum.OutlierCount = len(out.Points)
			return formatOutliers(out), nil
		}},
		{fmt.Sprintf("Q7. Correlation between %s and %s", opts.CorrelationA, opts.CorrelationB), func() (string, error) {
			v, err := query.Correlation(data, opts.CorrelationA, opts.CorrelationB)
			if err != nil {
				return "", err
			}
			sum.Correlation = v
			return fmt.Sprintf("%.4f\n", v), nil
		}},
		{"Q8. Times the highest price was hit", func() (string, error) {
			n, err := query.CountMaxHighHits(data)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d\n", n), nil
		}},
		{"Q9. Average closing price by month", func() (string, error) {
			bs, err := query.MonthlyMeanClose(data)
			return bucketsBlock(bs, err, query.Month, formatPrice)
		}},
		{"Q10. Total volume by month", func() (string, error) {
			bs, err := query.MonthlyTotalVolume(data)
			return bucketsBlock(bs, err, query.Month, formatVolumeDecimal)
		}},
		{"Q11. Date of the highest closing price", func() (string, error) {
			return datesBlock(query.DateOfMax(data, model.FieldClose))
		}},
		{"Q12. Weekday records", func() (string, error) {
			days := query.FilterWeekdays(data)
			shown := query.Preview(days, opts.WeekdayRows)
			return fmt.Sprintf("%d of %d records fall on weekdays, showing %d\n%s",
				len(days), len(data), len(shown), formatRecords(shown)), nil
		}},
		{"Q13. Average closing price by year", func() (string, error) {
			bs, err := query.YearlyMeanClose(data)
			return bucketsBlock(bs, err, query.Year, formatPrice)
		}},
		{"Q14. Date of the largest price change", func() (string, error) {
			return datesBlock(query.DateOfMax(data, model.FieldAbsChange))
		}},
		{fmt.Sprintf("Q15. Top %d dates by volume", opts.TopN), func() (string, error) {
			top, err := query.TopNByVolume(data, opts.TopN)
			if err != nil {
				return "", err
			}
			return formatDateVolumes(top), nil
		}},
		{"Q16. Average closing price by quarter", func() (string, error) {
			bs, err := query.QuarterlyMeanClose(data)
			return bucketsBlock(bs, err, query.Quarter, formatPrice)
		}},
		{"Q17. Date of the largest intraday range", func() (string, error) {
			return datesBlock(query.DateOfMax(data, model.FieldIntradayRange))
		}},
		{"Q18. Average volume by year", func() (string, error) {
			bs, err := query.YearlyMeanVolume(data)
			return bucketsBlock(bs, err, query.Year, formatVolumeMean)
		}},
	}
}

func bucketsBlock(buckets []query.Bucket, err error, p query.Period, format func(decimal.Decimal) string) (string, error) {
	if err != nil {
		return "", err
	}
	return formatBuckets(buckets, p, format), nil
}

func targetLabel(t time.Time) string {
	if t.IsZero() {
		return "the last date"
	}
	return formatDate(t)
}

func datesBlock(dates []time.Time, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return formatDates(dates), nil
}
