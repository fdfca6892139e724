package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseNumber parses a spreadsheet number. It accepts a currency symbol, a decimal
// comma, and common thousands separators ("1.234,50 €", "€1,234.50", "1 234.5").
func ParseNumber(s string) (float64, bool) {
	raw := strings.NewReplacer("€", "", "$", "", "£", "", "EUR", "", "eur", "", "\u00A0", " ").Replace(s)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := decimalSeparator(raw)
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decimalSeparator picks the decimal mark. With both marks present the last one
// wins. A lone mark followed by exactly three digits after a non-zero integer part,
// or a repeated mark, groups thousands ("1,250", "1.234.567").
func decimalSeparator(raw string) rune {
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			return ','
		}
		return '.'
	case cpos < 0 && dpos < 0:
		return '.'
	}
	sep, pos := '.', dpos
	if cpos >= 0 {
		sep, pos = ',', cpos
	}
	if strings.Count(raw, string(sep)) > 1 {
		return thousandsOnly(sep)
	}
	intPart := strings.Trim(raw[:pos], " +-")
	if len(raw)-pos-1 == 3 && strings.Trim(intPart, "0 ") != "" {
		return thousandsOnly(sep)
	}
	return sep
}

// thousandsOnly returns the mark that is not sep, so sep is stripped as a grouping.
func thousandsOnly(sep rune) rune {
	if sep == ',' {
		return '.'
	}
	return ','
}

var timeLayouts = []string{
	"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999", "2006-01-02", "2006/01/02 15:04:05", "2006/01/02 15:04", "2006/01/02",
	// Slash dates are day-first whether or not they are zero-padded.
	"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006",
	"2/1/2006 15:04:05", "2/1/2006 15:04", "2/1/2006", "2/1/06 15:04",
}

var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05Z07:00"}

// excelEpoch is day zero of the 1900 date system as stored in cells (the Lotus
// leap-year bug is absorbed by starting on Dec 30).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseTime parses a timestamp cell. Zoned values are converted to loc; naive
// values and Excel serial day numbers are read as wall-clock time in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range zonedLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t.In(loc), true
		}
	}
	for _, l := range timeLayouts {
		if t, err := time.ParseInLocation(l, v, loc); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return FromExcelSerial(f, loc)
	}
	return time.Time{}, false
}

// FromExcelSerial converts a 1900-system serial day number to wall-clock time in loc,
// rounded to the second.
func FromExcelSerial(f float64, loc *time.Location) (time.Time, bool) {
	if f <= 0 || f > 2958465 || math.IsNaN(f) {
		return time.Time{}, false
	}
	days := math.Floor(f)
	secs := math.Round((f - days) * 86400)
	utc := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
	return time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), 0, loc), true
}
