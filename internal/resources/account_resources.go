package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/modelcal/caldav-mcp/internal/logging"
	"github.com/modelcal/caldav-mcp/internal/server"
)

// RegisterAccountResources registers resources describing the configured
// CalDAV accounts and their calendars.
func RegisterAccountResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountsResource := mcp.NewResource(
		"caldav://accounts",
		"CalDAV Accounts",
		mcp.WithResourceDescription("The configured CalDAV accounts"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccounts(ctx, request, sc)
	})

	calendarsResource := mcp.NewResource(
		"caldav://calendars",
		"CalDAV Calendars",
		mcp.WithResourceDescription("The calendars discovered across all configured CalDAV accounts"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendars(ctx, request, sc)
	})

	return nil
}

// handleAccounts returns the configured accounts. Credentials are never
// included, only the account name and server host.
func handleAccounts(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	registry, err := sc.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CalDAV accounts: %w", err)
	}

	accounts := make([]map[string]interface{}, 0, len(registry.Accounts()))
	for _, acct := range registry.Accounts() {
		accounts = append(accounts, map[string]interface{}{
			"name":      acct.Name(),
			"host":      logging.ExtractHost(acct.BaseURL()),
			"calendars": len(acct.Calendars()),
		})
	}

	jsonData, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleCalendars returns the calendars of all connected accounts.
func handleCalendars(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	registry, err := sc.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CalDAV accounts: %w", err)
	}

	calendars := registry.Calendars()
	entries := make([]map[string]interface{}, 0, len(calendars))
	for _, cal := range calendars {
		entry := map[string]interface{}{
			"name":    cal.Name,
			"url":     cal.URL,
			"account": cal.Account,
		}
		if cal.Description != "" {
			entry["description"] = cal.Description
		}
		entries = append(entries, entry)
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calendar data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
