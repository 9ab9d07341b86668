package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"caltransit/internal/model"
)

var (
	planDays int
	planOut  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry run: compute travel events without creating them",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planDays, "days", 0, "Days forward to process (default from config)")
	planCmd.Flags().StringVar(&planOut, "out", "dry_run_output.json", "File to write the planned events to")
}

// dryRunOutput is the reviewable plan file written by "caltransit plan".
type dryRunOutput struct {
	GeneratedAt string                   `json:"generated_at"`
	Note        string                   `json:"note"`
	Count       int                      `json:"transit_events_count"`
	Events      []model.SynthesizedEvent `json:"transit_events"`
}

func newDryRunOutput(legs []model.SynthesizedEvent, now time.Time) dryRunOutput {
	return dryRunOutput{
		GeneratedAt: now.Format(time.RFC3339),
		Note:        "This is a dry run. No events were created in the calendar.",
		Count:       len(legs),
		Events:      legs,
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, days, err := loadConfig(planDays)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	legs, _, err := computeLegs(context.Background(), cfg, days)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Summary: %d travel events to create\n", len(legs))
	if len(legs) == 0 {
		fmt.Println("No travel events needed.")
		return nil
	}

	data, err := json.MarshalIndent(newDryRunOutput(legs, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.WriteFile(planOut, data, 0o600); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}

	fmt.Printf("Dry run output saved to %s\n", planOut)
	fmt.Println("Review the file, then run \"caltransit apply\" to create the events.")
	return nil
}
