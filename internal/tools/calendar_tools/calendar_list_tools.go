package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/modelcal/caldav-mcp/internal/caldav"
	"github.com/modelcal/caldav-mcp/internal/instrumentation"
	"github.com/modelcal/caldav-mcp/internal/server"
	"github.com/modelcal/caldav-mcp/internal/tools/common"
)

// RegisterCalendarListTools registers calendar discovery tools with the MCP server
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("caldav_list_calendars",
		mcp.WithDescription("List all calendars available across the configured CalDAV accounts"),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithOperation(
		"caldav_list_calendars", instrumentation.OperationListCalendars, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	registry, err := getRegistry(ctx, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calendars := registry.Calendars()
	if len(calendars) == 0 {
		return mcp.NewToolResultText("No calendars found"), nil
	}

	return mcp.NewToolResultText(formatCalendars(calendars)), nil
}

func formatCalendars(calendars []caldav.CalendarInfo) string {
	result := fmt.Sprintf("Found %d calendar(s):\n\n", len(calendars))
	for i, cal := range calendars {
		result += fmt.Sprintf("%d. %s\n", i+1, cal.Name)
		result += fmt.Sprintf("   URL: %s\n", cal.URL)
		result += fmt.Sprintf("   Account: %s\n", cal.Account)
		if cal.Description != "" {
			result += fmt.Sprintf("   Description: %s\n", cal.Description)
		}
		result += "\n"
	}
	return result
}
