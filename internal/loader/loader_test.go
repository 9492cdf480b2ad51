package loader

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Sample(t *testing.T) {
	records, err := LoadFile("testdata/googl_sample.csv")
	require.NoError(t, err)
	require.Len(t, records, 6)

	first := records[0]
	assert.Equal(t, time.Date(2013, 2, 8, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "390.4551", first.Open.String())
	assert.Equal(t, "393.0777", first.Close.String())
	assert.Equal(t, int64(6031199), first.Volume)

	assert.Equal(t, time.Date(2013, 2, 15, 0, 0, 0, 0, time.UTC), records[5].Date)
}

func TestParse_ColumnOrderAndCase(t *testing.T) {
	in := " Volume ,Close,LOW,high,open,Date\n1200.0,103,98,105,100,2013-02-14 00:00:00\n"
	records, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, int64(1200), r.Volume)
	assert.Equal(t, "103", r.Close.String())
	assert.Equal(t, "98", r.Low.String())
	assert.Equal(t, "105", r.High.String())
	assert.Equal(t, "100", r.Open.String())
	assert.Equal(t, time.Date(2013, 2, 14, 0, 0, 0, 0, time.UTC), r.Date)
}

func TestParse_HeaderOnly(t *testing.T) {
	records, err := Parse(strings.NewReader("date,open,high,low,close,volume\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		line   int
		column string
		target error
	}{
		{"empty input", "", 1, "", ErrMissingHeader},
		{"missing column", "date,open,high,low,close\n", 1, "volume", ErrMissingColumn},
		{"short row", "date,open,high,low,close,volume\n2013-02-14,1,2,0.5,1\n", 2, "", ErrFieldCount},
		{"empty field", "date,open,high,low,close,volume\n2013-02-14,1,2,0.5,,10\n", 2, "close", ErrEmptyField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParse_BadValues(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"date", "14/02/2013,1,2,0.5,1,10", "date"},
		{"price", "2013-02-14,abc,2,0.5,1,10", "open"},
		{"fractional volume", "2013-02-14,1,2,0.5,1,10.5", "volume"},
		{"volume text", "2013-02-14,1,2,0.5,1,lots", "volume"},
		{"volume overflow", "2013-02-14,1,2,0.5,1,99999999999999999999", "volume"},
		{"volume exponent overflow", "2013-02-14,1,2,0.5,1,1e30", "volume"},
		{"negative volume", "2013-02-14,1,2,0.5,1,-5", "volume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "date,open,high,low,close,volume\n2013-02-13,1,2,0.5,1,10\n" + tt.row + "\n"
			_, err := Parse(strings.NewReader(in))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 3, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
			assert.NotEmpty(t, pe.Value)
		})
	}
}

func TestParse_VolumeLimits(t *testing.T) {
	head := "date,open,high,low,close,volume\n2013-02-14,1,2,0.5,1,"

	records, err := Parse(strings.NewReader(head + "9223372036854775807\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), records[0].Volume)

	records, err = Parse(strings.NewReader(head + "1e3\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), records[0].Volume)

	_, err = Parse(strings.NewReader(head + "9223372036854775808\n"))
	assert.ErrorIs(t, err, ErrVolumeRange)

	_, err = Parse(strings.NewReader(head + "1e30\n"))
	assert.ErrorIs(t, err, ErrVolumeRange)

	_, err = Parse(strings.NewReader(head + "-1\n"))
	assert.ErrorIs(t, err, ErrNegativeVolume)
}

func TestWrite_RoundTrip(t *testing.T) {
	records, err := LoadFile("testdata/googl_sample.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), "date,open,high,low,close,volume\n"))

	again, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, again, len(records))
	for i := range records {
		assert.True(t, records[i].Equal(again[i]), "record %d differs", i)
		assert.Equal(t, records[i].Date, again[i].Date)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does_not_exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}
