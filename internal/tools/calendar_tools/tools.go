package calendar_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/modelcal/caldav-mcp/internal/caldav"
	"github.com/modelcal/caldav-mcp/internal/server"
)

// getRegistry returns the connected account registry, connecting the
// accounts on first use.
func getRegistry(ctx context.Context, sc *server.ServerContext) (*caldav.Registry, error) {
	registry, err := sc.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect CalDAV accounts: %w", err)
	}
	return registry, nil
}

// RegisterCalendarTools registers all CalDAV-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register calendar list tools
	if err := RegisterCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}

	// Register event tools
	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	return nil
}
