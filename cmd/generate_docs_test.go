package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"caldav_list_calendars", "CalDAV Tools"},
		{"caldav_list_events", "CalDAV Tools"},
		{"caldav_create_event", "CalDAV Tools"},
		{"caldav_delete_event", "CalDAV Tools"},
		{"something_else", "Other"},
	}

	for _, tt := range tests {
		if got := getCategoryFromToolName(tt.name); got != tt.expected {
			t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("caldav_list_events",
		mcp.WithDescription("List events of a calendar in a time range"),
		mcp.WithString("calendar_url", mcp.Required(), mcp.Description("URL of the calendar")),
		mcp.WithString("end", mcp.Description("End of the time range")),
	)

	out := generateToolMarkdown(tool)

	if !strings.Contains(out, "### caldav_list_events") {
		t.Errorf("missing heading: %q", out)
	}
	if !strings.Contains(out, "List events of a calendar in a time range") {
		t.Errorf("missing description: %q", out)
	}
	if !strings.Contains(out, "`calendar_url` (required)") {
		t.Errorf("missing required argument: %q", out)
	}
	if !strings.Contains(out, "`end` (optional)") {
		t.Errorf("missing optional argument: %q", out)
	}
}

func TestGenerateToolsMarkdownGroupsByCategory(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("caldav_list_calendars", mcp.WithDescription("List calendars")),
		mcp.NewTool("caldav_list_events", mcp.WithDescription("List events")),
	}

	out := generateToolsMarkdown(tools)

	if !strings.Contains(out, "# MCP Tools Reference") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "## CalDAV Tools") {
		t.Errorf("missing category section: %q", out)
	}
	if strings.Index(out, "caldav_list_calendars") > strings.Index(out, "### caldav_list_events") {
		t.Errorf("tools not sorted by name: %q", out)
	}
}

func TestContains(t *testing.T) {
	if !contains([]string{"a", "b"}, "b") {
		t.Error("contains should find existing item")
	}
	if contains([]string{"a", "b"}, "c") {
		t.Error("contains should not find missing item")
	}
	if contains(nil, "a") {
		t.Error("contains on nil slice should be false")
	}
}
