// Package daily maps instants to calendar-day keys.
package daily

import (
	"fmt"
	"time"

	"github.com/robalobadob/guessword/internal/game"
)

// Layout is the YYYY-MM-DD form used for game_sessions.date.
const Layout = "2006-01-02"

// Calendar turns the current time into a day key in a fixed location.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a Calendar for loc (time.Local when nil).
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc, now: time.Now}
}

// LoadCalendar resolves an IANA zone name; "" and "Local" mean the server zone.
func LoadCalendar(name string) (*Calendar, error) {
	if name == "" || name == "Local" {
		return NewCalendar(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewCalendar(loc), nil
}

// Today returns today's key.
func (c *Calendar) Today() string {
	return DateKey(c.now(), c.loc)
}

// Location returns the calendar's zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// DateKey returns YYYY-MM-DD for t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(Layout)
}

// ParseKey validates a YYYY-MM-DD string and returns it in canonical form.
func ParseKey(s string) (string, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", game.ErrValidation)
	}
	return t.Format(Layout), nil
}
