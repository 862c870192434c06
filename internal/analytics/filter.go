package analytics

import (
	"fmt"
	"strings"
	"time"

	"appinsight/internal/domain"
)

// Range presets accepted by ResolveRange.
const (
	PresetLast7   = "last7"
	PresetLast30  = "last30"
	PresetLast365 = "last365"
	PresetAll     = "all"
)

var presetDays = map[string]int{
	PresetLast7:   7,
	PresetLast30:  30,
	PresetLast365: 365,
}

// Filter keeps reviews whose RawDate falls inside r. The start bound is the
// beginning of its day, the end bound the last millisecond of its day.
// The input is never modified.
func Filter(reviews []domain.Review, r domain.DateRange) []domain.Review {
	in := Within(r)
	out := make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		if in(rv.RawDate) {
			out = append(out, rv)
		}
	}
	return out
}

// Within returns the membership test Filter applies, for callers that need
// to keep track of positions.
func Within(r domain.DateRange) func(time.Time) bool {
	var from, to time.Time
	if !r.Start.IsZero() {
		from = startOfDay(r.Start)
	}
	if !r.End.IsZero() {
		to = endOfDay(r.End)
	}
	return func(t time.Time) bool {
		if !from.IsZero() && t.Before(from) {
			return false
		}
		return to.IsZero() || !t.After(to)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ResolveRange turns request parameters into a DateRange. Explicit start/end
// days (YYYY-MM-DD, interpreted in loc) win over the preset; an empty preset
// means all.
func ResolveRange(preset, start, end string, now time.Time, loc *time.Location) (domain.DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	var r domain.DateRange
	if start != "" || end != "" {
		var err error
		if r.Start, err = parseDay(start, loc); err != nil {
			return r, err
		}
		if r.End, err = parseDay(end, loc); err != nil {
			return r, err
		}
		if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
			return domain.DateRange{}, fmt.Errorf("%w: end before start", domain.ErrInvalidInput)
		}
		return r, nil
	}

	preset = strings.ToLower(strings.TrimSpace(preset))
	if preset == "" || preset == PresetAll {
		return r, nil
	}
	days, ok := presetDays[preset]
	if !ok {
		return r, fmt.Errorf("%w: unknown range %q", domain.ErrInvalidInput, preset)
	}
	now = now.In(loc)
	return domain.DateRange{Start: now.AddDate(0, 0, -days), End: now}, nil
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}
