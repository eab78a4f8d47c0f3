package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"worktimer/internal/period"
	"worktimer/internal/report"
)

// parseDuration accepts a bare number of minutes or a Go duration.
func parseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		return time.Duration(n) * time.Minute, nil
	}

	d, err := time.ParseDuration(input)
	if err == nil {
		return d, nil
	}

	return 0, fmt.Errorf("invalid duration %q: use minutes or a duration like 1h30m", input)
}

// parseSince turns a --since value into a time_start bound. Dates and the
// today/week keywords are read in the configured zone.
func parseSince(input string, now time.Time) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return 0, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	now = now.In(loc)

	switch input {
	case "today":
		return period.Seconds(report.StartOfDay(now)), nil
	case "week":
		return period.Seconds(report.StartOfWeek(now)), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", input, loc); err == nil {
		return period.Seconds(t), nil
	}
	if d, err := time.ParseDuration(input); err == nil {
		return period.Seconds(now.Add(-d)), nil
	}
	return 0, fmt.Errorf("invalid --since %q: use a date like 2006-01-02, today, week or a duration like 48h", input)
}
