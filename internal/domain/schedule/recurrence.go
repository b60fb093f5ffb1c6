package schedule

import "time"

// Next computes the next execution time one interval after from.
// For IntervalNone it returns from unchanged; callers must treat that as
// "do not re-arm". Monthly recurrence clamps the day of month to the length
// of the target month, so Jan 31 rolls to the last day of February.
func Next(interval RepeatInterval, from time.Time) time.Time {
	switch interval {
	case IntervalDaily:
		return from.AddDate(0, 0, 1)
	case IntervalWeekly:
		return from.AddDate(0, 0, 7)
	case IntervalMonthly:
		return addMonthClamped(from)
	default:
		return from
	}
}

// ShouldContinue reports whether a schedule with the given execution count
// should keep recurring. A nil max means unbounded.
func ShouldContinue(current int, max *int) bool {
	if max == nil {
		return true
	}
	return current < *max
}

func addMonthClamped(from time.Time) time.Time {
	y, m, d := from.Date()
	// Day 0 of month+2 is the last day of month+1; time.Date normalizes
	// out-of-range months, so December rolls into January correctly.
	lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, from.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m+1, d,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(),
		from.Location())
}
