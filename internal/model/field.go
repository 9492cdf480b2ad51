package model

import (
	"fmt"
	"strings"
)

// Field names a numeric column of a Record.
type Field string

const (
	FieldOpen   Field = "open"
	FieldHigh   Field = "high"
	FieldLow    Field = "low"
	FieldClose  Field = "close"
	FieldVolume Field = "volume"

	// Derived, never stored.
	FieldAbsChange     Field = "abs_change"
	FieldIntradayRange Field = "intraday_range"
)

// Fields lists every readable field in display order.
var Fields = []Field{
	FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume,
	FieldAbsChange, FieldIntradayRange,
}

// ParseField maps a column name to a Field, ignoring case and surrounding spaces.
func ParseField(s string) (Field, error) {
	name := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Fields {
		if f == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

func (f Field) String() string { return string(f) }
