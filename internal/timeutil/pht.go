package timeutil

import (
	"time"
)

// PHT is the Philippine Time location (UTC+8)
var PHT *time.Location

func init() {
	var err error
	PHT, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		// Fallback: create fixed zone if Asia/Manila not available
		PHT = time.FixedZone("PHT", 8*60*60) // UTC+8
	}
}

// Now returns the current time in PHT
func Now() time.Time {
	return time.Now().In(PHT)
}

// ToPHT converts any time to PHT
func ToPHT(t time.Time) time.Time {
	return t.In(PHT)
}

// ParseInPHT parses a time string and returns it in PHT
func ParseInPHT(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, PHT)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatPHT formats a time in PHT using the given layout
func FormatPHT(t time.Time, layout string) string {
	return t.In(PHT).Format(layout)
}

// StartOfDay returns the start of day (00:00:00) in PHT for the given time
func StartOfDay(t time.Time) time.Time {
	pht := t.In(PHT)
	return time.Date(pht.Year(), pht.Month(), pht.Day(), 0, 0, 0, 0, PHT)
}

// EndOfDay returns the end of day (23:59:59) in PHT for the given time
func EndOfDay(t time.Time) time.Time {
	pht := t.In(PHT)
	return time.Date(pht.Year(), pht.Month(), pht.Day(), 23, 59, 59, 999999999, PHT)
}

// DaysBetween returns whole calendar days from a to b in PHT.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	start := StartOfDay(a)
	end := StartOfDay(b)
	return int(end.Sub(start).Hours() / 24)
}

// Common layouts for PHT formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
