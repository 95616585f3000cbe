// Package logging provides structured logging utilities for the caldav-mcp application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (calendar path anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "caldav.list_events")
//	logger.Info("listing events",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("calendar operation",
//	    logging.CalendarHash(calendarURL))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Calendar paths are hashed to prevent username leakage while allowing correlation
//   - Passwords and tokens are never logged directly
package logging
