package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Fill tokens of the exchange format.
const (
	FillValue = "-999"
	FillFlag  = "9"
)

// Hint forces date or time formatting of a string-typed value.
type Hint int

const (
	HintNone Hint = iota
	HintDate
	HintTime
)

// ParseHint maps "", "date" and "time" to a Hint.
func ParseHint(s string) (Hint, error) {
	switch strings.ToLower(s) {
	case "":
		return HintNone, nil
	case "date":
		return HintDate, nil
	case "time":
		return HintTime, nil
	}
	return HintNone, fmt.Errorf("%w: unknown date/time hint %q", ErrFormat, s)
}

// FormatOptions tunes Strfex.
type FormatOptions struct {
	// Flag formats value as a WOCE flag.
	Flag bool
	// Precision overrides the record's numeric precision for decimals.
	// Zero means no decimal point.
	Precision *int
	// Hint forces date or time output for string fields.
	Hint Hint
}

// Precision is a convenience for building FormatOptions.Precision.
func Precision(p int) *int {
	return &p
}

// Strfex formats value using the WHP exchange conventions:
//
//   - flags are plain integers, NaN flags are "9"
//   - dates are YYYYMMDD, times are HHMM
//   - strings are left justified, numbers right justified to field_width
//   - NaN is the only numeric fill; it prints as "-999"
//
// Output wider than field_width is returned as is, never truncated.
func (v View) Strfex(value any, opts FormatOptions) (string, error) {
	if opts.Flag {
		return formatFlag(value)
	}

	width := v.rec.FieldWidth
	switch v.rec.Dtype {
	case DtypeString:
		return formatString(value, width, opts.Hint)
	case DtypeInteger:
		return formatInteger(value, width)
	}

	f, ok := toFloat(value)
	if !ok {
		return "", fmt.Errorf("%w: %s: decimal field cannot format %T", ErrFormat, v.FullName(), value)
	}
	if math.IsNaN(f) {
		return fmt.Sprintf("%*.0f", width, -999.0), nil
	}

	precision := v.rec.NumericPrecision
	if opts.Precision != nil {
		precision = opts.Precision
	}
	if precision == nil {
		return "", fmt.Errorf("%w: %s has no numeric precision", ErrFormat, v.FullName())
	}
	return fmt.Sprintf("%*.*f", width, *precision, f), nil
}

func formatFlag(value any) (string, error) {
	if i, ok := toInt(value); ok {
		return strconv.FormatInt(i, 10), nil
	}
	f, ok := toFloat(value)
	if !ok {
		return "", fmt.Errorf("%w: flag values must be numeric, got %T", ErrFormat, value)
	}
	if math.IsNaN(f) {
		return FillFlag, nil
	}
	if math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: infinite flag value", ErrFormat)
	}
	return strconv.FormatInt(int64(math.Trunc(f)), 10), nil
}

func formatString(value any, width int, hint Hint) (string, error) {
	t, isTime := value.(time.Time)
	if hint != HintNone && !isTime {
		return "", fmt.Errorf("%w: date/time hint needs a time.Time, got %T", ErrFormat, value)
	}
	if isTime {
		if hint == HintTime {
			return t.Format("1504"), nil
		}
		return t.Format("20060102"), nil
	}

	text := fmt.Sprint(value)
	if f, ok := toFloat(value); ok && math.IsNaN(f) {
		text = "nan"
	}
	formatted := fmt.Sprintf("%-*s", width, text)
	if strings.TrimSpace(formatted) == "" {
		return fmt.Sprintf("%-*s", width, FillValue), nil
	}
	return formatted, nil
}

func formatInteger(value any, width int) (string, error) {
	if i, ok := toInt(value); ok {
		return fmt.Sprintf("%*d", width, i), nil
	}
	f, ok := toFloat(value)
	if !ok {
		return "", fmt.Errorf("%w: integer field cannot format %T", ErrFormat, value)
	}
	if math.IsNaN(f) {
		return fmt.Sprintf("%*d", width, -999), nil
	}
	if math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: infinite integer value", ErrFormat)
	}
	return fmt.Sprintf("%*d", width, int64(math.Trunc(f))), nil
}

func toInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	if i, ok := toInt(value); ok {
		return float64(i), true
	}
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
