package instrumentation

import "net/url"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with calendar identifiers.

// ExtractCalendarHost extracts the host part of a calendar URL.
// Calendar paths frequently embed usernames; using only the host keeps
// label cardinality bounded by the number of configured servers.
//
// Example:
//
//	ExtractCalendarHost("https://dav.example.com/calendars/jane/work/")  // "dav.example.com"
//	ExtractCalendarHost("/calendars/jane/work/")                         // "unknown"
//	ExtractCalendarHost("")                                              // "unknown"
func ExtractCalendarHost(calendarURL string) string {
	if calendarURL == "" {
		return "unknown"
	}

	u, err := url.Parse(calendarURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// Operation types for CalDAV metrics.
// Status constants are defined in config.go.
const (
	OperationListCalendars = "list_calendars"
	OperationListEvents    = "list_events"
	OperationCreateEvent   = "create_event"
	OperationDeleteEvent   = "delete_event"
	OperationConnect       = "connect"
)
