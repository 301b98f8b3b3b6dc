package model

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in UTC.
type Day struct {
	t time.Time
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// DayOfUnix truncates unix seconds to a UTC calendar day.
func DayOfUnix(sec int64) Day {
	return DayOf(time.Unix(sec, 0))
}

// dayLayouts covers the timestamp formats the upstream APIs deliver.
var dayLayouts = []string{
	dayLayout,
	time.RFC3339,
	"2006-01-02 15:04:05.000 UTC",
	"2006-01-02 15:04:05 UTC",
	"2006-01-02T15:04:05.000Z",
}

// ParseDay parses a calendar day from any supported upstream format.
func ParseDay(input string) (Day, error) {
	trimmed := strings.TrimSpace(input)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, fmt.Errorf("unrecognized date %q", input)
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return d.t
}

// Before reports whether d falls before other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

func (d Day) IsZero() bool {
	return d.t.IsZero()
}

func (d Day) String() string {
	return d.t.Format(dayLayout)
}

// MarshalJSON encodes the day as "YYYY-MM-DD".
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a day from "YYYY-MM-DD".
func (d *Day) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseDay(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
