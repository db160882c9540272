package scheduling

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Pattern is the recurrence code sent by the scheduling form
type Pattern int

const (
	PatternNone   Pattern = 0
	PatternWeekly Pattern = 7
)

// Valid reports whether p is one of the codes the form offers
func (p Pattern) Valid() bool {
	return p >= PatternNone && p <= PatternWeekly
}

// ExpandRecurrence returns the occurrence dates of a series, start and end
// inclusive. PatternNone yields only start. Codes 1..6 repeat every N days and
// PatternWeekly every 7 days. An unknown code yields start alone when start is
// not after end.
func ExpandRecurrence(start, end time.Time, pattern Pattern) []time.Time {
	start = truncateDay(start)
	end = truncateDay(end)

	if pattern == PatternNone {
		return []time.Time{start}
	}
	if start.After(end) {
		return []time.Time{}
	}

	opt := rrule.ROption{
		Dtstart: start,
		Until:   end,
	}
	switch {
	case pattern >= 1 && pattern <= 6:
		opt.Freq = rrule.DAILY
		opt.Interval = int(pattern)
	case pattern == PatternWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 1
	default:
		return []time.Time{start}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return []time.Time{start}
	}
	return rule.All()
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
