// Package resources provides MCP resources for exposing account and
// calendar data. Resources are read-only data sources that MCP clients
// can fetch without invoking a tool, such as the list of configured
// CalDAV accounts and their discovered calendars.
package resources
