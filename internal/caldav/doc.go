// Package caldav wraps CalDAV server access for the configured accounts.
//
// It discovers calendars through the current-user-principal and
// calendar-home-set properties, lists events as recurrence definitions ready
// for expansion, and creates and deletes calendar objects. Calendars are
// addressed by URL; full URLs and server-relative paths are both accepted.
package caldav
