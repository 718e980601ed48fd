package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange  = errors.New("daterange: end date must not be before start date")
	ErrInvalidFormat = errors.New("daterange: dates must be formatted as YYYY-MM-DD")
)

// Layout is the wire format for calendar dates. No time or zone component.
const Layout = "2006-01-02"

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay reads a YYYY-MM-DD string into a UTC calendar day.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, ErrInvalidFormat
	}
	return Day(t), nil
}

// FormatDay renders a calendar day back into its wire format.
func FormatDay(t time.Time) string {
	return Day(t).Format(Layout)
}

// DateRange is an inclusive interval of whole calendar days [Start, End].
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Day(start), End: Day(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(start, end string) (DateRange, error) {
	s, err := ParseDay(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return DateRange{}, err
	}
	return New(s, e)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if dr.End.Before(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days counts the calendar days covered by the range, both endpoints included.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !other.Start.After(dr.End)
}

// ContainsDay reports whether the given calendar day falls inside the range.
func (dr DateRange) ContainsDay(t time.Time) bool {
	d := Day(t)
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// EachDay enumerates every calendar day in the range in ascending order.
func (dr DateRange) EachDay() []time.Time {
	days := make([]time.Time, 0, dr.Days())
	for d := dr.Start; !d.After(dr.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
