package domain

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for range bounds. It matches the DATE
// literal form the warehouse accepts as a bind value.
const DateFormat = "2006-01-02"

// DateRange is an inclusive start/end date pair used to filter warehouse
// queries. The zero value is invalid; construct one through NewDateRange
// or ParseDateRange so the start <= end invariant holds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ParseDateRange builds a range from two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateFormat, start)
	if err != nil {
		return DateRange{}, &ValidationError{Msg: fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", start)}
	}
	e, err := time.Parse(DateFormat, end)
	if err != nil {
		return DateRange{}, &ValidationError{Msg: fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", end)}
	}
	return NewDateRange(s, e)
}

// PreviousMonth returns the first through last day of the calendar month
// before now. It is the default range for every dated report.
func PreviousMonth(now time.Time) DateRange {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := firstOfCurrent.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	return DateRange{Start: start, End: end}
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return &ValidationError{Msg: "date range requires both a start and an end date"}
	}
	if r.End.Before(r.Start) {
		return &ValidationError{
			Msg: fmt.Sprintf("start date %s is after end date %s",
				r.Start.Format(DateFormat), r.End.Format(DateFormat)),
		}
	}
	return nil
}

// Days returns the inclusive length of the range in days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(DateFormat), r.End.Format(DateFormat))
}

// SavedSelection is a date range the operator persisted for later recall.
// Selections are append-only: they are never mutated or deleted once saved.
type SavedSelection struct {
	Start time.Time
	End   time.Time
}

func (s SavedSelection) Range() DateRange {
	return DateRange{Start: s.Start, End: s.End}
}

// Label is the identity the operator sees when picking selections to compare.
func (s SavedSelection) Label() string {
	return s.Range().String()
}
