package caldav

import (
	"net/url"
	"time"
)

// CalendarInfo describes one discovered calendar.
type CalendarInfo struct {
	Name        string
	URL         string
	Description string
	Account     string
}

// EventInput is the input for creating a calendar event. RRule, when
// non-empty, is an RFC 5545 recurrence rule value without the "RRULE:"
// prefix.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	RRule       string
}

// NormalizeURL reduces a calendar URL to its server-relative path so that
// full URLs and paths compare equal. Values that are not absolute URLs are
// returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	return u.Path
}
