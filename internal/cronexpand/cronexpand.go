// Package cronexpand materializes shift-slot occurrences from a 5-field cron
// expression over a bounded window (the Recurrence Expander).
package cronexpand

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/robfig/cron/v3"
)

// ErrInvalidCronExpression wraps a parse failure from the underlying cron
// expression parser.
var ErrInvalidCronExpression = errors.New("invalid cron expression")

// MaxOccurrences bounds a single Expand call as a defensive loop guard; it is
// not a silent truncation point a caller relies on for correctness, only a
// backstop against a misconfigured schedule producing an unbounded slice.
const MaxOccurrences = 1000

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Occurrence is one materialized shift slot, always expressed in UTC.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Expand computes every occurrence of cronExpr in [windowStart, windowEnd),
// each paired with an End time offset by duration. The expression is
// evaluated in tz (falling back to UTC when tz is empty) and results are
// converted back to UTC before being returned, so schedules that cross a
// DST boundary still enumerate by local wall-clock time.
//
// Expand returns (occurrences, truncated, err): truncated is true only when
// MaxOccurrences was hit before windowEnd, so a caller can log the condition
// instead of silently dropping slots.
func Expand(cronExpr string, windowStart, windowEnd time.Time, duration time.Duration, tz string) (occurrences []Occurrence, truncated bool, err error) {
	if windowStart.After(windowEnd) {
		return nil, false, nil
	}

	loc := time.UTC
	if tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, false, fmt.Errorf("load timezone %q: %w", tz, err)
		}
	}

	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrInvalidCronExpression, cronExpr, err)
	}

	// schedule.Next is strictly-after (exclusive), so a firing landing
	// exactly on windowStart would be skipped; probe from one second before
	// windowStart, same as IsExactOccurrence, to include it.
	current := windowStart.In(loc).Add(-time.Second)
	end := windowEnd.In(loc)

	for len(occurrences) < MaxOccurrences {
		next := schedule.Next(current)
		if next.IsZero() || !next.Before(end) {
			break
		}
		occurrences = append(occurrences, Occurrence{
			Start: next.UTC(),
			End:   next.Add(duration).UTC(),
		})
		current = next
	}

	if len(occurrences) == MaxOccurrences {
		next := schedule.Next(current)
		if !next.IsZero() && next.Before(end) {
			truncated = true
		}
	}

	return occurrences, truncated, nil
}

// IsExactOccurrence reports whether t is precisely a scheduled occurrence of
// cronExpr (to second resolution), used by the Booking Arbiter to reject
// booking requests for a start_time that does not land on the schedule. It
// uses cronexpr rather than the robfig parser above since cronexpr exposes
// Next() from an arbitrary instant without needing a parsed cron.Schedule
// held across calls, making the t-1s trick a one-liner.
func IsExactOccurrence(expr string, t time.Time) (bool, error) {
	schedule, err := cronexpr.Parse(expr)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidCronExpression, expr, err)
	}
	return schedule.Next(t.Add(-time.Second)).Equal(t), nil
}
