package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"StockAnalysis/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingHeader = errors.New("missing header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrEmptyField    = errors.New("empty field")

	ErrVolumeRange    = errors.New("volume out of range")
	ErrNegativeVolume = errors.New("negative volume")
)

// Columns is the required header, in the order Write emits it.
var Columns = []string{"date", "open", "high", "low", "close", "volume"}

var dateLayouts = []string{model.DateLayout, "2006-01-02 15:04:05", time.RFC3339}

// ParseError describes a row or field that could not be loaded.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column == "":
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Value == "":
		return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
	default:
		return fmt.Sprintf("line %d, column %q: parse %q: %v", e.Line, e.Column, e.Value, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadFile opens path and parses it as an OHLCV CSV file.
func LoadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}

// Parse reads a header row followed by one record per line. Columns are
// located by name; extra columns are ignored. Records keep file order.
// The first bad row aborts the load.
func Parse(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Err: ErrMissingHeader}
	}
	if err != nil {
		return nil, csvError(err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) != len(header) {
			return nil, &ParseError{
				Line: line,
				Err:  fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(row), len(header)),
			}
		}
		rec, err := parseRow(row, idx, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(Columns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, &ParseError{Line: 1, Column: c, Err: ErrMissingColumn}
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int, line int) (model.Record, error) {
	var rec model.Record

	field := func(name string) (string, error) {
		v := strings.TrimSpace(row[idx[name]])
		if v == "" {
			return "", &ParseError{Line: line, Column: name, Err: ErrEmptyField}
		}
		return v, nil
	}
	price := func(name string) (decimal.Decimal, error) {
		v, err := field(name)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, &ParseError{Line: line, Column: name, Value: v, Err: err}
		}
		return d, nil
	}

	v, err := field("date")
	if err != nil {
		return rec, err
	}
	if rec.Date, err = parseDate(v); err != nil {
		return rec, &ParseError{Line: line, Column: "date", Value: v, Err: err}
	}
	if rec.Open, err = price("open"); err != nil {
		return rec, err
	}
	if rec.High, err = price("high"); err != nil {
		return rec, err
	}
	if rec.Low, err = price("low"); err != nil {
		return rec, err
	}
	if rec.Close, err = price("close"); err != nil {
		return rec, err
	}

	if v, err = field("volume"); err != nil {
		return rec, err
	}
	if rec.Volume, err = parseVolume(v); err != nil {
		return rec, &ParseError{Line: line, Column: "volume", Value: v, Err: err}
	}
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return model.Day(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseVolume accepts non-negative integers and integral decimals such as "1234.0".
func parseVolume(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			return 0, derr
		}
		if !d.IsInteger() {
			return 0, errors.New("volume is not a whole number")
		}
		if !d.BigInt().IsInt64() {
			return 0, ErrVolumeRange
		}
		n = d.IntPart()
	}
	if n < 0 {
		return 0, ErrNegativeVolume
	}
	return n, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read csv: %w", err)
}
