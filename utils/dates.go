package utils

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var clockLayouts = []string{"15:04", "15:04:05", "03:04 PM", "3:04 PM", "03:04PM", "3:04PM"}

// ParseClock parses a time of day and returns hours and minutes.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
}

// At places a time of day on the given calendar day.
func At(day time.Time, hour, minute int) time.Time {
	d := DateOnly(day)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}
