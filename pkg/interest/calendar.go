package interest

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar is a set of holiday dates on which no interest accrues.
// A nil Calendar has no holidays.
type Calendar struct {
	loc  *time.Location
	days map[string]struct{}
}

// NewCalendar builds a calendar from the given dates, interpreted in loc.
func NewCalendar(loc *time.Location, dates ...time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{loc: loc, days: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		c.days[d.In(loc).Format(dateLayout)] = struct{}{}
	}
	return c
}

// ParseCalendar parses a comma separated list of YYYY-MM-DD dates.
func ParseCalendar(loc *time.Location, list string) (*Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	var dates []time.Time
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return NewCalendar(loc, dates...), nil
}

// IsHoliday reports whether t falls on a holiday in the calendar's location.
func (c *Calendar) IsHoliday(t time.Time) bool {
	if c == nil || len(c.days) == 0 {
		return false
	}
	_, ok := c.days[t.In(c.loc).Format(dateLayout)]
	return ok
}

// Len returns the number of holidays.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.days)
}
