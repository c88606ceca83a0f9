// Package parser parses natural language times for log editing and range
// filters.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// TimestampResult holds the parsed timestamp and any error.
type TimestampResult struct {
	Time  time.Time
	Error error
}

// periodRegex matches period expressions like "this week", "last month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(hour|day|week|month|quarter|year)$`)

// ParseTimestamp parses a natural language timestamp expression relative to
// the current time.
func ParseTimestamp(input string) TimestampResult {
	return ParseTimestampAt(input, time.Now())
}

// ParseTimestampAt parses a natural language timestamp expression relative
// to now.
func ParseTimestampAt(input string, now time.Time) TimestampResult {
	input = strings.TrimSpace(input)
	if input == "" || strings.ToLower(input) == "now" {
		return TimestampResult{Time: now}
	}

	// Check for period expressions first
	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return parsePeriod(now, match[1], match[2])
	}

	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: now.Location(),
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return TimestampResult{Error: NewTimestampError(input)}
	}
	if result.Time.IsZero() {
		return TimestampResult{Error: NewTimestampError(input)}
	}

	return TimestampResult{Time: result.Time}
}

// ParseDay parses a calendar day such as "2024-03-01", "yesterday" or
// "last friday" and returns local midnight of that day.
func ParseDay(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "today") {
		return startOfDay(now), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, input, now.Location()); err == nil {
		return t, nil
	}

	result := ParseTimestampAt(input, now)
	if result.Error != nil {
		return time.Time{}, NewDateError(input)
	}
	return startOfDay(result.Time.In(now.Location())), nil
}

// parsePeriod handles period expressions like "this week", "last month".
func parsePeriod(now time.Time, modifier, period string) TimestampResult {
	modifier = strings.ToLower(modifier)
	period = strings.ToLower(period)
	previous := modifier == "last" || modifier == "previous"

	var t time.Time

	switch period {
	case "hour":
		t = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
		if previous {
			t = t.Add(-time.Hour)
		}

	case "day":
		t = startOfDay(now)
		if previous {
			t = t.AddDate(0, 0, -1)
		}

	case "week":
		t = startOfWeek(now)
		if previous {
			t = t.AddDate(0, 0, -7)
		}

	case "month":
		t = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(0, -1, 0)
		}

	case "quarter":
		quarter := (int(now.Month()) - 1) / 3
		t = time.Date(now.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(0, -3, 0)
		}

	case "year":
		t = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(-1, 0, 0)
		}

	default:
		return TimestampResult{Time: now}
	}

	return TimestampResult{Time: t}
}

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// GetPeriodRange returns the start and end of a named period relative to now.
// Unknown names select today.
func GetPeriodRange(period string, now time.Time) TimeRange {
	period = strings.ToLower(strings.TrimSpace(period))
	current := strings.HasPrefix(period, "this") || strings.HasPrefix(period, "current")

	var start, end time.Time

	switch {
	case strings.HasPrefix(period, "today"):
		start = startOfDay(now)
		end = start.AddDate(0, 0, 1)

	case strings.HasPrefix(period, "yesterday"):
		start = startOfDay(now).AddDate(0, 0, -1)
		end = start.AddDate(0, 0, 1)

	case strings.Contains(period, "week"):
		start = startOfWeek(now)
		if !current {
			start = start.AddDate(0, 0, -7)
		}
		end = start.AddDate(0, 0, 7)

	case strings.Contains(period, "month"):
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		if !current {
			start = start.AddDate(0, -1, 0)
		}
		end = start.AddDate(0, 1, 0)

	case strings.Contains(period, "year"):
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		if !current {
			start = start.AddDate(-1, 0, 0)
		}
		end = start.AddDate(1, 0, 0)

	default:
		start = startOfDay(now)
		end = start.AddDate(0, 0, 1)
	}

	return TimeRange{Start: start, End: end}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns Monday midnight of the week containing t.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return startOfDay(t).AddDate(0, 0, -weekday+1)
}
