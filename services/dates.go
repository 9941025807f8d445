package services

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// loadLocation resolves an IANA zone, falling back to fallback (then UTC).
func loadLocation(tz string, fallback *time.Location) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}

// localDate formats t as a calendar date in loc.
func localDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// missedWorkdays counts weekdays strictly between two calendar dates.
func missedWorkdays(last, today string) (int, error) {
	from, err := parseDate(last)
	if err != nil {
		return 0, fmt.Errorf("parse last streak date %q: %w", last, err)
	}
	to, err := parseDate(today)
	if err != nil {
		return 0, fmt.Errorf("parse today %q: %w", today, err)
	}
	missed := 0
	for d := from.AddDate(0, 0, 1); d.Before(to); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			missed++
		}
	}
	return missed, nil
}

// periodBounds returns the period key and the exclusive end of the period containing t.
func periodBounds(period string, t time.Time, loc *time.Location) (key string, end time.Time) {
	lt := t.In(loc)
	dayStart := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	switch period {
	case "weekly":
		// ISO weeks start on Monday.
		offset := (int(lt.Weekday()) + 6) % 7
		weekStart := dayStart.AddDate(0, 0, -offset)
		year, week := lt.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), weekStart.AddDate(0, 0, 7)
	case "monthly":
		monthStart := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
		return lt.Format("2006-01"), monthStart.AddDate(0, 1, 0)
	default:
		return lt.Format(dateLayout), dayStart.AddDate(0, 0, 1)
	}
}

// inSeason reports whether the MM-DD of t lies in [start, end], wrapping at year end.
func inSeason(start, end string, t time.Time) bool {
	if start == "" || end == "" {
		return true
	}
	md := t.Format("01-02")
	if start <= end {
		return md >= start && md <= end
	}
	return md >= start || md <= end
}
