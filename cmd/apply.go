package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var applyDays int

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Compute travel events and create them in the calendar",
	Args:  cobra.NoArgs,
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().IntVar(&applyDays, "days", 0, "Days forward to process (default from config)")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, days, err := loadConfig(applyDays)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()

	legs, _, err := computeLegs(ctx, cfg, days)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(legs) == 0 {
		fmt.Println("\nNo travel events needed.")
		return nil
	}

	fmt.Printf("\nCreating %d travel events...\n", len(legs))

	client, err := calendarClient(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	succeeded := client.InsertEvents(ctx, legs)
	fmt.Println()
	fmt.Printf("Summary: %d of %d travel events created\n", succeeded, len(legs))
	if succeeded < len(legs) {
		os.Exit(2)
	}
	return nil
}
