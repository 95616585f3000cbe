// Package calendar_tools provides MCP (Model Context Protocol) tools for CalDAV
// calendar operations.
//
// This package exposes CalDAV functionality through a standardized MCP interface,
// allowing AI assistants to discover calendars, list events with recurring events
// expanded into concrete occurrences, and create or delete events on behalf of
// users.
//
// The tools support multiple CalDAV accounts. Write tools (create and delete)
// are only registered when the server runs with writes enabled.
package calendar_tools
