// Package server provides the MCP server context, health checks, and the
// dedicated metrics server for the caldav-mcp application.
//
// # Key Components
//
// ServerContext holds the CalDAV account registry with lazy connection,
// the read-only flag for write tool gating, and the instrumentation hooks
// (metrics recorder and audit logger) shared by the tool handlers.
//
// HealthChecker exposes /healthz and /readyz endpoints for Kubernetes
// probes when the server runs with the HTTP transport.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from the main MCP traffic.
package server
