package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the caldav-mcp application
var rootCmd = &cobra.Command{
	Use:   "caldav-mcp",
	Short: "MCP server exposing CalDAV calendars to AI assistants",
	Long: `caldav-mcp is an MCP (Model Context Protocol) server that connects to one
or more CalDAV accounts and exposes their calendars to AI assistants.

Recurring events are expanded server-side into concrete occurrences, so
assistants see every instance of a series inside the requested time range.

It can run as:
  - An MCP server over stdio or streamable HTTP (default)
  - A one-shot CLI that prints the expanded events of a calendar`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "caldav-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
