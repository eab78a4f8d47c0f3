// Package report sums worked time per day or week.
package report

import (
	"fmt"
	"time"

	"worktimer/internal/period"
)

const (
	ByDay  = "day"
	ByWeek = "week"
)

// Group is the worked time of all periods that share a key.
type Group struct {
	Key     string
	Periods int
	Worked  time.Duration
}

// GroupKey returns the bucket t falls in: 2006-01-02 for days and the ISO
// week, like 2006-W01, for weeks.
func GroupKey(t time.Time, by string) (string, error) {
	switch by {
	case ByDay:
		return t.Format("2006-01-02"), nil
	case ByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), nil
	}
	return "", fmt.Errorf("unknown grouping %q", by)
}

// Summarize buckets periods by their start time in loc and adds up the
// worked time. Open periods count up to now. Groups come back in the
// order their first period appears.
func Summarize(periods []period.Period, loc *time.Location, by string, now time.Time) ([]Group, error) {
	if _, err := GroupKey(now, by); err != nil {
		return nil, err
	}

	var groups []Group
	index := make(map[string]int)

	for _, p := range periods {
		key, err := GroupKey(period.FromSeconds(p.TimeStart).In(loc), by)
		if err != nil {
			return nil, err
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Periods++
		groups[i].Worked += period.WorkedAt(p, now).Duration()
	}
	return groups, nil
}

// Total adds up the worked time of all groups.
func Total(groups []Group) time.Duration {
	var total time.Duration
	for _, g := range groups {
		total += g.Worked
	}
	return total
}

// StartOfDay returns local midnight of the day t falls on.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	return StartOfDay(t).AddDate(0, 0, -offset+1)
}
