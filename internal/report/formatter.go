package report

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"StockAnalysis/internal/model"
	"StockAnalysis/internal/query"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func formatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(4)
}

func formatVolumeDecimal(d decimal.Decimal) string {
	return humanize.Comma(d.IntPart())
}

func formatVolumeMean(d decimal.Decimal) string {
	return formatVolumeFloat(d.InexactFloat64())
}

func formatVolumeFloat(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func table(write func(tw *tabwriter.Writer)) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	write(tw)
	tw.Flush()
	return b.String()
}

func formatSchema(cols []query.Column) string {
	var b strings.Builder
	b.WriteString("root\n")
	for _, c := range cols {
		b.WriteString(fmt.Sprintf(" |-- %s: %s\n", c.Name, c.Type))
	}
	return b.String()
}

func formatRecords(records []model.Record) string {
	if len(records) == 0 {
		return "(no rows)\n"
	}
	return table(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "date\topen\thigh\tlow\tclose\tvolume\t")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				formatDate(r.Date), r.Open, r.High, r.Low, r.Close, humanize.Comma(r.Volume))
		}
	})
}

func formatBuckets(buckets []query.Bucket, p query.Period, format func(decimal.Decimal) string) string {
	return table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "%s\tdays\tvalue\t\n", p)
		for _, bk := range buckets {
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", bk.Key.Label(p), bk.Count, format(bk.Value))
		}
	})
}

func formatDateVolumes(points []query.DateVolume) string {
	if len(points) == 0 {
		return "(none)\n"
	}
	return table(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "date\tvolume\t")
		for _, p := range points {
			fmt.Fprintf(tw, "%s\t%s\t\n", formatDate(p.Date), humanize.Comma(p.Volume))
		}
	})
}

func formatOutliers(o *query.Outliers) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("mean %s, sample std-dev %s, threshold %s\n",
		formatVolumeFloat(o.Mean), formatVolumeFloat(o.StdDev), formatVolumeFloat(o.Threshold)))
	b.WriteString(formatDateVolumes(o.Points))
	return b.String()
}

// formatDates prints the first date and lists any ties after it.
func formatDates(dates []time.Time) string {
	if len(dates) == 0 {
		return "(none)\n"
	}
	if len(dates) == 1 {
		return formatDate(dates[0]) + "\n"
	}
	rest := make([]string, len(dates)-1)
	for i, d := range dates[1:] {
		rest[i] = formatDate(d)
	}
	return fmt.Sprintf("%s (tied with %d more: %s)\n", formatDate(dates[0]), len(rest), strings.Join(rest, ", "))
}
