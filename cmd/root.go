package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "caltransit",
	Short: "caltransit – travel events for your calendar",
	Long: `caltransit reads upcoming events from your Google Calendar and adds
"TRANSIT/DRIVE/WALK: A → B" travel events for the gaps between them, using
Google Maps travel-time estimates. Run "caltransit plan" for an auditable
dry run, then "caltransit apply" to create the events.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(authCmd)
}
