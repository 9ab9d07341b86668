package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"caltransit/internal/gcal"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in to Google Calendar",
	Long:  "Runs the device-code login flow and replaces any cached token.",
	Args:  cobra.NoArgs,
	RunE:  runAuth,
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if _, _, err := gcal.ForceLogin(context.Background(), cfg.ClientID, cfg.ClientSecret); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Logged in.")
	return nil
}
