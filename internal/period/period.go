package period

import (
	"errors"
	"fmt"
	"time"
)

type Preset string

const (
	Today     Preset = "today"
	Yesterday Preset = "yesterday"
	ThisWeek  Preset = "this_week"
	LastWeek  Preset = "last_week"
	ThisMonth Preset = "this_month"
	LastMonth Preset = "last_month"
	ThisYear  Preset = "this_year"
	LastYear  Preset = "last_year"
	Custom    Preset = "custom"
)

// detectionOrder fixes the priority when several presets resolve to the
// same range (a month that is also a week, January 1st, ...).
var detectionOrder = []Preset{
	Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth, ThisYear, LastYear,
}

var (
	ErrUnknownPreset = errors.New("unknown period preset")
	ErrInvalidRange  = errors.New("invalid date range: start date is after end date")
)

// DateRange is an inclusive calendar-day range in the agency's local
// calendar. Start and End are midnight of their respective days.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Contains reports whether t falls on a day inside the range. Granularity
// is the calendar day: any instant on the end date is in range.
func (r DateRange) Contains(t time.Time) bool {
	d := dayOf(t.In(r.Start.Location()))
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Days returns the number of calendar days covered, at least 1.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resolve maps a named preset to its concrete range relative to now.
// Current week/month/year run "to date": this_week on a Wednesday spans
// Sunday..Wednesday, not Sunday..Saturday. Weeks start Sunday.
func Resolve(preset Preset, now time.Time) (DateRange, error) {
	today := dayOf(now)
	switch preset {
	case Today:
		return DateRange{Start: today, End: today}, nil
	case Yesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}, nil
	case ThisWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return DateRange{Start: start, End: today}, nil
	case LastWeek:
		thisSunday := today.AddDate(0, 0, -int(today.Weekday()))
		start := thisSunday.AddDate(0, 0, -7)
		return DateRange{Start: start, End: thisSunday.AddDate(0, 0, -1)}, nil
	case ThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: today}, nil
	case LastMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		start := firstOfThis.AddDate(0, -1, 0)
		return DateRange{Start: start, End: firstOfThis.AddDate(0, 0, -1)}, nil
	case ThisYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: today}, nil
	case LastYear:
		start := time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, today.Location())
		end := time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: end}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
}

// NewCustom validates an explicit range. Inverted bounds are rejected,
// never swapped: a swapped range would silently report the wrong period.
func NewCustom(start, end time.Time) (DateRange, error) {
	s, e := dayOf(start), dayOf(end)
	if s.After(e) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: s, End: e}, nil
}

// DetectPreset returns the named preset whose resolved range equals r,
// or Custom. Used to keep client period selectors in sync.
func DetectPreset(r DateRange, now time.Time) Preset {
	for _, p := range detectionOrder {
		resolved, err := Resolve(p, now)
		if err != nil {
			continue
		}
		if resolved.Equal(r) {
			return p
		}
	}
	return Custom
}

// ParsePreset validates a raw preset token.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth, ThisYear, LastYear, Custom:
		return Preset(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}
