package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelcal/caldav-mcp/internal/caldav"
	"github.com/modelcal/caldav-mcp/internal/config"
	"github.com/modelcal/caldav-mcp/internal/logging"
	"github.com/modelcal/caldav-mcp/internal/recurrence"
)

func newEventsCmd() *cobra.Command {
	var (
		calendarURL string
		startFlag   string
		endFlag     string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the expanded events of a calendar",
		Long: `Fetch the events of a CalDAV calendar in a time range and print them,
with recurring events expanded into their concrete occurrences.

Accounts are read from the same CALDAV_* environment variables used by
the serve command. The time range defaults to the next 30 days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now().UTC()
			if startFlag != "" {
				var err error
				start, err = time.Parse(time.RFC3339, startFlag)
				if err != nil {
					return fmt.Errorf("invalid --start value %q: %w", startFlag, err)
				}
			}
			end := start.AddDate(0, 0, 30)
			if endFlag != "" {
				var err error
				end, err = time.Parse(time.RFC3339, endFlag)
				if err != nil {
					return fmt.Errorf("invalid --end value %q: %w", endFlag, err)
				}
			}
			if !end.After(start) {
				return fmt.Errorf("--end must be after --start")
			}

			return runEvents(cmd.Context(), calendarURL, start, end)
		},
	}

	cmd.Flags().StringVar(&calendarURL, "calendar-url", "", "URL of the calendar to read (required)")
	cmd.Flags().StringVar(&startFlag, "start", "", "Start of the time range, RFC 3339 (default: now)")
	cmd.Flags().StringVar(&endFlag, "end", "", "End of the time range, RFC 3339 (default: start + 30 days)")
	_ = cmd.MarkFlagRequired("calendar-url")

	return cmd
}

func runEvents(ctx context.Context, calendarURL string, start, end time.Time) error {
	accounts, err := config.ParseAccounts()
	if err != nil {
		return err
	}

	registry := caldav.NewRegistry(accounts, logging.DefaultLogger())
	if err := registry.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to CalDAV accounts: %w", err)
	}

	account, err := registry.AccountFor(calendarURL)
	if err != nil {
		return err
	}

	defs, err := account.ListEvents(ctx, calendarURL, start, end)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	occurrences := recurrence.ExpandObserved(defs, start, end, func(outcome recurrence.Outcome) {
		if outcome.Fallback {
			log.Printf("warning: could not expand recurrence of %s, showing it once", outcome.DefinitionID)
		}
	})

	for _, occ := range occurrences {
		line := fmt.Sprintf("%s  %s", occ.Start.Format(time.RFC3339), occ.Title)
		if occ.Location != "" {
			line += fmt.Sprintf(" (%s)", occ.Location)
		}
		if occ.Recurring {
			line += " [recurring]"
		}
		fmt.Println(line)
	}

	fmt.Printf("\n%d occurrence(s) between %s and %s\n",
		len(occurrences), start.Format(time.RFC3339), end.Format(time.RFC3339))
	return nil
}
