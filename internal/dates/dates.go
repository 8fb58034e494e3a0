// Package dates models calendar-day ranges. Every value is truncated to UTC
// midnight and every range is half-open: [Start, End).
package dates

import (
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/ambernegi/rha/pkg/errors"
)

// Layout is the wire format for a calendar day.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var dayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string as UTC midnight.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !dayRe.MatchString(value) {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeInvalidRange, "date must be YYYY-MM-DD").
			WithDetails(map[string]any{"value": value})
	}
	t, err := time.ParseInLocation(Layout, value, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInvalidRange, err, "date is not a calendar day").
			WithDetails(map[string]any{"value": value})
	}
	return t, nil
}

// FormatDay renders t as YYYY-MM-DD in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(Layout)
}

// AddDays shifts a day by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Range is a half-open span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// New normalises both bounds to UTC midnight. It does not validate.
func New(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Parse builds a validated range from two YYYY-MM-DD strings.
func Parse(start, end string) (Range, error) {
	s, err := ParseDay(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return Range{}, err
	}
	r := Range{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Nights counts whole days between Start and End. Zero or negative means the
// range is empty.
func (r Range) Nights() int {
	return int((Day(r.End).Unix() - Day(r.Start).Unix()) / secondsPerDay)
}

// Validate rejects ranges with no nights.
func (r Range) Validate() error {
	if r.Nights() <= 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidRange, "end date must be after start date").
			WithDetails(map[string]any{"startDate": FormatDay(r.Start), "endDate": FormatDay(r.End)})
	}
	return nil
}

// Overlaps reports whether two half-open ranges share at least one night.
func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

// Contains reports whether day falls inside [Start, End).
func (r Range) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && d.Before(r.End)
}

func (r Range) String() string {
	return FormatDay(r.Start) + "/" + FormatDay(r.End)
}

// Overlaps is the half-open overlap predicate: aStart < bEnd && bStart < aEnd.
// Back-to-back ranges (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Window is an optional filter over ranges. Zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

// Validate rejects windows whose bounds are both set and inverted.
func (w Window) Validate() error {
	if !w.From.IsZero() && !w.To.IsZero() && !w.From.Before(w.To) {
		return pkgerrors.New(pkgerrors.CodeInvalidRange, "from must be before to")
	}
	return nil
}

// Admits reports whether r intersects the window: start < to AND end > from.
func (w Window) Admits(r Range) bool {
	if !w.To.IsZero() && !r.Start.Before(w.To) {
		return false
	}
	if !w.From.IsZero() && !r.End.After(w.From) {
		return false
	}
	return true
}
