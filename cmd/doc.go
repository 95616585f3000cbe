// Package cmd implements the command-line interface for caldav-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide CalDAV tools for AI assistants
//   - events: Print the expanded events of a calendar in a time range
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
