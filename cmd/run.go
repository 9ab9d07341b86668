package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"caltransit/internal/config"
	"caltransit/internal/engine"
	"caltransit/internal/gcal"
	"caltransit/internal/model"
	"caltransit/internal/routes"
	"caltransit/internal/timecalc"
)

// engineSettings maps the loaded configuration onto the engine's per-run
// settings.
func engineSettings(cfg config.Config) engine.Settings {
	return engine.Settings{
		HomeAddress:         cfg.HomeAddress,
		TransitColorID:      cfg.TransitColorID,
		HoldColorID:         cfg.HoldColorID,
		Timezone:            cfg.Timezone,
		VideoKeywords:       cfg.VideoKeywords,
		LowTransitLocations: cfg.LowTransitLocations,
		HomeAirports:        cfg.HomeAirports,
		DetectTrips:         cfg.DetectTrips,
	}
}

// fetchWindow is [now, end of now+days].
func fetchWindow(days int) (time.Time, time.Time) {
	now := time.Now()
	return now, timecalc.EndOfDay(now.AddDate(0, 0, days))
}

// loadConfig loads and validates configuration, resolving the look-ahead
// window from the --days flag when set.
func loadConfig(daysFlag int) (config.Config, int, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, 0, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, 0, err
	}
	days := cfg.DaysForward
	if daysFlag > 0 {
		days = daysFlag
	}
	return cfg, days, nil
}

// calendarClient authenticates and builds the calendar transport.
func calendarClient(ctx context.Context, cfg config.Config) (*gcal.Client, error) {
	tok, oauthCfg, err := gcal.GetToken(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	client, err := gcal.NewClient(ctx, tok, oauthCfg)
	if err != nil {
		return nil, err
	}
	client.Progress = os.Stdout
	return client, nil
}

// newOracle builds the route oracle: the raw Routes API client wrapped with
// bounded retries and a circuit breaker.
func newOracle(cfg config.Config) routes.Oracle {
	return routes.NewResilient(routes.NewClient(cfg.MapsAPIKey), routes.DefaultRetryPolicy())
}

// computeLegs runs the full pipeline: fetch, then derive travel legs with the
// audit log on stdout. It returns both the legs and the fetched events.
func computeLegs(ctx context.Context, cfg config.Config, days int) ([]model.SynthesizedEvent, []model.SourceEvent, error) {
	client, err := calendarClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	from, to := fetchWindow(days)
	fmt.Printf("Fetching events from now to %s...\n", to.Format("2006-01-02"))

	events, err := client.ListUpcoming(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Found %d events\n", len(events))

	eng, err := engine.New(newOracle(cfg), engineSettings(cfg), engine.WithProgress(os.Stdout))
	if err != nil {
		return nil, nil, err
	}
	legs, err := eng.Run(ctx, events)
	if err != nil {
		return nil, nil, err
	}
	return legs, events, nil
}
