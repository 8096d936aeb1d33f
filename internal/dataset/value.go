package dataset

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the timestamp formats accepted by Value.Time, in the order
// they are tried. Exports from the CRM come through Excel, which renders the
// same datetime column in several of these depending on locale settings.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Value is a single nullable table cell. Cells are string-backed because the
// source workbook delivers every field as formatted text; typed access goes
// through Float, Int and Time which parse on demand.
type Value struct {
	raw   string
	valid bool
}

// Null returns the null cell value
func Null() Value {
	return Value{}
}

// NewValue creates a cell from raw text. Blank or whitespace-only text is
// treated as null, matching how empty workbook cells arrive.
func NewValue(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return Value{}
	}
	return Value{raw: raw, valid: true}
}

// FloatValue creates a numeric cell
func FloatValue(f float64) Value {
	return Value{raw: strconv.FormatFloat(f, 'f', -1, 64), valid: true}
}

// IntValue creates an integer cell
func IntValue(n int) Value {
	return Value{raw: strconv.Itoa(n), valid: true}
}

// IsNull reports whether the cell holds no value
func (v Value) IsNull() bool {
	return !v.valid
}

// String returns the raw text of the cell, or "" for null
func (v Value) String() string {
	return v.raw
}

// Float parses the cell as a float64. Thousands separators are stripped the
// same way the workbook parser does for price columns.
func (v Value) Float() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v.raw), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int parses the cell as an int
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Time parses the cell as a timestamp, trying each accepted layout in order
func (v Value) Time() (time.Time, bool) {
	if !v.valid {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(v.raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Equal reports whether two cells hold the same state and text
func (v Value) Equal(other Value) bool {
	return v.valid == other.valid && v.raw == other.raw
}
