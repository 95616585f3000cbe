package calendar_tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/modelcal/caldav-mcp/internal/caldav"
	"github.com/modelcal/caldav-mcp/internal/instrumentation"
	"github.com/modelcal/caldav-mcp/internal/logging"
	"github.com/modelcal/caldav-mcp/internal/recurrence"
	"github.com/modelcal/caldav-mcp/internal/server"
	"github.com/modelcal/caldav-mcp/internal/tools/common"
)

// defaultWindowDays is the listing window applied when no end time is given.
const defaultWindowDays = 30

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("caldav_list_events",
		mcp.WithDescription("List events in a calendar within a time range. Recurring events are expanded into their concrete occurrences."),
		mcp.WithString("calendar_url",
			mcp.Required(),
			mcp.Description("URL of the calendar, as returned by caldav_list_calendars"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start of the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Description("End of the range (RFC3339 format). Defaults to 30 days after start."),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithOperation(
		"caldav_list_events", instrumentation.OperationListEvents, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	// Register write tools only if not in read-only mode
	if !sc.ReadOnly() {
		createEventTool := mcp.NewTool("caldav_create_event",
			mcp.WithDescription("Create a new calendar event, optionally recurring"),
			mcp.WithString("calendar_url",
				mcp.Required(),
				mcp.Description("URL of the calendar, as returned by caldav_list_calendars"),
			),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("Event title/summary"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Start time (RFC3339 format, e.g., '2025-01-15T14:00:00Z')"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("End time (RFC3339 format, e.g., '2025-01-15T15:00:00Z')"),
			),
			mcp.WithString("description",
				mcp.Description("Event description"),
			),
			mcp.WithString("location",
				mcp.Description("Event location"),
			),
			mcp.WithString("frequency",
				mcp.Description("Recurrence frequency: 'DAILY', 'WEEKLY', 'MONTHLY' or 'YEARLY'. Omit for a one-off event."),
			),
			mcp.WithNumber("interval",
				mcp.Description("Recurrence interval (e.g., 2 for every second week)"),
			),
			mcp.WithNumber("count",
				mcp.Description("Number of occurrences after which the series ends"),
			),
			mcp.WithString("until",
				mcp.Description("Last possible occurrence time (RFC3339 format)"),
			),
			mcp.WithString("by_day",
				mcp.Description("Comma-separated weekday codes, optionally with ordinals (e.g., 'MO,WE,FR' or '-1FR')"),
			),
			mcp.WithString("by_month_day",
				mcp.Description("Comma-separated days of month (e.g., '1,15' or '-1' for the last day)"),
			),
			mcp.WithString("by_month",
				mcp.Description("Comma-separated months 1-12 (e.g., '3,9')"),
			),
		)

		s.AddTool(createEventTool, common.InstrumentedToolHandlerWithOperation(
			"caldav_create_event", instrumentation.OperationCreateEvent, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateEvent(ctx, request, sc)
			}))

		deleteEventTool := mcp.NewTool("caldav_delete_event",
			mcp.WithDescription("Delete a calendar event by its UID"),
			mcp.WithString("calendar_url",
				mcp.Required(),
				mcp.Description("URL of the calendar, as returned by caldav_list_calendars"),
			),
			mcp.WithString("uid",
				mcp.Required(),
				mcp.Description("UID of the event to delete"),
			),
		)

		s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithOperation(
			"caldav_delete_event", instrumentation.OperationDeleteEvent, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleDeleteEvent(ctx, request, sc)
			}))
	}

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	calendarURL, ok := args["calendar_url"].(string)
	if !ok || calendarURL == "" {
		return mcp.NewToolResultError("calendar_url is required"), nil
	}

	start, end, err := resolveWindow(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	registry, err := getRegistry(ctx, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	account, err := registry.AccountFor(calendarURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	defs, err := account.ListEvents(ctx, calendarURL, start, end)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	metrics := sc.Metrics()
	logger := sc.Logger()
	occurrences := recurrence.ExpandObserved(defs, start, end, func(outcome recurrence.Outcome) {
		if metrics != nil {
			metrics.RecordRecurrenceExpansion(ctx, outcome.Generated, outcome.Fallback)
		}
		if outcome.Fallback {
			logger.Warn("recurrence rule could not be expanded, event degraded to a single occurrence",
				"uid", outcome.DefinitionID)
		}
	})

	return mcp.NewToolResultText(formatOccurrences(occurrences, start, end)), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	calendarURL, ok := args["calendar_url"].(string)
	if !ok || calendarURL == "" {
		return mcp.NewToolResultError("calendar_url is required"), nil
	}

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	start, err := requiredTimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := requiredTimeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !end.After(start) {
		return mcp.NewToolResultError("end must be after start"), nil
	}

	recurrenceInput, err := recurrenceFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rrule, err := caldav.BuildRRule(recurrenceInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid recurrence: %v", err)), nil
	}

	input := caldav.EventInput{
		Summary: summary,
		Start:   start,
		End:     end,
		RRule:   rrule,
	}
	if desc, ok := args["description"].(string); ok {
		input.Description = desc
	}
	if loc, ok := args["location"].(string); ok {
		input.Location = loc
	}

	registry, err := getRegistry(ctx, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	account, err := registry.AccountFor(calendarURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	uid, err := account.CreateEvent(ctx, calendarURL, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	result := fmt.Sprintf("Successfully created event: %s\n", summary)
	result += fmt.Sprintf("UID: %s\n", uid)
	result += fmt.Sprintf("Start: %s\n", start.Format(time.RFC3339))
	result += fmt.Sprintf("End: %s\n", end.Format(time.RFC3339))
	if rrule != "" {
		result += fmt.Sprintf("Recurrence: %s\n", rrule)
	}

	return mcp.NewToolResultText(result), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	calendarURL, ok := args["calendar_url"].(string)
	if !ok || calendarURL == "" {
		return mcp.NewToolResultError("calendar_url is required"), nil
	}

	uid, ok := args["uid"].(string)
	if !ok || uid == "" {
		return mcp.NewToolResultError("uid is required"), nil
	}

	registry, err := getRegistry(ctx, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	account, err := registry.AccountFor(calendarURL)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := account.DeleteEvent(ctx, calendarURL, uid); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}

	sc.Logger().Info("deleted event via tool", logging.KeyTool, "caldav_delete_event", "uid", uid)
	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted event %s", uid)), nil
}

// resolveWindow parses the start and end arguments of a listing request.
// A missing end defaults to 30 days after start.
func resolveWindow(args map[string]interface{}) (time.Time, time.Time, error) {
	start, err := requiredTimeArg(args, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end := start.AddDate(0, 0, defaultWindowDays)
	if endStr, ok := args["end"].(string); ok && endStr != "" {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end format: %v", err)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end must not be before start")
	}
	return start, end, nil
}

func requiredTimeArg(args map[string]interface{}, key string) (time.Time, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %v", key, err)
	}
	return t, nil
}

// recurrenceFromArgs assembles the recurrence portion of a create-event
// request. Numeric MCP arguments arrive as float64.
func recurrenceFromArgs(args map[string]interface{}) (caldav.RecurrenceInput, error) {
	var in caldav.RecurrenceInput

	if freq, ok := args["frequency"].(string); ok {
		in.Frequency = freq
	}
	in.Interval = intArg(args, "interval")
	in.Count = intArg(args, "count")

	if untilStr, ok := args["until"].(string); ok && untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return in, fmt.Errorf("invalid until format: %v", err)
		}
		in.Until = until
	}

	if byDay, ok := args["by_day"].(string); ok && byDay != "" {
		for _, tok := range strings.Split(byDay, ",") {
			in.ByDay = append(in.ByDay, strings.TrimSpace(tok))
		}
	}

	var err error
	if in.ByMonthDay, err = intListArg(args, "by_month_day"); err != nil {
		return in, err
	}
	if in.ByMonth, err = intListArg(args, "by_month"); err != nil {
		return in, err
	}

	return in, nil
}

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func intListArg(args map[string]interface{}, key string) ([]int, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return nil, nil
	}
	var out []int
	for _, tok := range strings.Split(val, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", key, tok)
		}
		out = append(out, n)
	}
	return out, nil
}

func formatOccurrences(occurrences []recurrence.Occurrence, start, end time.Time) string {
	if len(occurrences) == 0 {
		return fmt.Sprintf("No events between %s and %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	result := fmt.Sprintf("Found %d occurrence(s) between %s and %s:\n\n",
		len(occurrences), start.Format(time.RFC3339), end.Format(time.RFC3339))
	for i, occ := range occurrences {
		result += fmt.Sprintf("%d. %s\n", i+1, occ.Title)
		result += fmt.Sprintf("   UID: %s\n", occ.DefinitionID)
		result += fmt.Sprintf("   Start: %s\n", occ.Start.Format(time.RFC3339))
		result += fmt.Sprintf("   End: %s\n", occ.End.Format(time.RFC3339))
		if occ.Location != "" {
			result += fmt.Sprintf("   Location: %s\n", occ.Location)
		}
		if occ.Recurring {
			result += "   Recurring: yes\n"
			if !occ.SeriesStart.IsZero() {
				result += fmt.Sprintf("   Series start: %s\n", occ.SeriesStart.Format(time.RFC3339))
			}
		}
		result += "\n"
	}
	return result
}
