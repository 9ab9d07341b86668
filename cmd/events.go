package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"caltransit/internal/engine"
	"caltransit/internal/model"
)

var eventsDays int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List upcoming events and how the transit filter would treat them",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().IntVar(&eventsDays, "days", 0, "Days forward to list (default from config)")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, days, err := loadConfig(eventsDays)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()
	client, err := calendarClient(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	from, to := fetchWindow(days)
	events, err := client.ListUpcoming(ctx, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(events) == 0 {
		fmt.Println("No events found.")
		return nil
	}

	settings := engineSettings(cfg)
	printEvents(events, settings)
	return nil
}

// printEvents groups events by date and annotates each with its filter
// decision, so filter configuration can be debugged without touching the
// oracle.
func printEvents(events []model.SourceEvent, settings engine.Settings) {
	var currentDay string
	for _, ev := range events {
		day := ev.Start.DateKey()
		if day == "" {
			continue
		}
		if day != currentDay {
			fmt.Println(day)
			currentDay = day
		}

		when := "all day"
		if ts, err := ev.Start.Time(); err == nil {
			when = ts.Format("15:04")
		}

		title := ev.Summary
		if title == "" {
			title = "(no title)"
		}

		note := "would be routed"
		if d := engine.Decide(ev, settings); d.Skip {
			note = fmt.Sprintf("skip: %s", d.Reason)
		}

		fmt.Printf("  %s  %-40s %s\n", when, title, note)
	}
}
