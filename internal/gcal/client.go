// Package gcal is the Google Calendar transport: it fetches the raw events
// the engine reads and inserts the travel events the engine produces. It is a
// thin adapter; all decision logic lives in internal/engine.
package gcal

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"caltransit/internal/model"
)

// Client is an authenticated Google Calendar API client bound to the
// user's primary calendar.
type Client struct {
	svc        *calendar.Service
	calendarID string

	// Progress receives per-event insert reporting. Defaults to io.Discard.
	Progress io.Writer
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts oauth2.TokenSource
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = saveToken(tok)
	return tok, nil
}

// NewClient creates a calendar client using the provided token and config.
// Extra options are used by tests to point at a fake server.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, extra ...option.ClientOption) (*Client, error) {
	ts := cfg.TokenSource(ctx, tok)
	httpClient := oauth2.NewClient(ctx, &savingTokenSource{ts: ts})

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, extra...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &Client{svc: svc, calendarID: "primary", Progress: io.Discard}, nil
}

// fromAPI maps a calendar API event onto the engine's source model.
func fromAPI(ev *calendar.Event) model.SourceEvent {
	out := model.SourceEvent{
		ID:        ev.Id,
		Summary:   ev.Summary,
		Location:  ev.Location,
		ColorID:   ev.ColorId,
		VideoCall: ev.ConferenceData != nil,
	}
	if ev.Start != nil {
		out.Start = model.EventTime{DateTime: ev.Start.DateTime, Date: ev.Start.Date, TimeZone: ev.Start.TimeZone}
	}
	if ev.End != nil {
		out.End = model.EventTime{DateTime: ev.End.DateTime, Date: ev.End.Date, TimeZone: ev.End.TimeZone}
	}
	return out
}

// toAPI maps a synthesized leg onto a calendar API event body. Leg metadata
// is engine-internal and not part of the API payload.
func toAPI(leg model.SynthesizedEvent) *calendar.Event {
	return &calendar.Event{
		Summary:     leg.Summary,
		Location:    leg.Location,
		ColorId:     leg.ColorID,
		Description: leg.Description,
		Start:       &calendar.EventDateTime{DateTime: leg.Start.DateTime, TimeZone: leg.Start.TimeZone},
		End:         &calendar.EventDateTime{DateTime: leg.End.DateTime, TimeZone: leg.End.TimeZone},
	}
}

// ListUpcoming fetches events in [from, to) from the primary calendar,
// expanded into single occurrences and ordered by start time. Cancelled
// events are dropped.
func (c *Client) ListUpcoming(ctx context.Context, from, to time.Time) ([]model.SourceEvent, error) {
	var out []model.SourceEvent
	call := c.svc.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(100)

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			out = append(out, fromAPI(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching calendar events: %w", err)
	}
	return out, nil
}

// InsertEvents creates the given legs on the primary calendar and returns how
// many were created. Insertion is not transactional: individual failures are
// reported on Progress and counted, never aborting the rest.
func (c *Client) InsertEvents(ctx context.Context, legs []model.SynthesizedEvent) int {
	succeeded := 0
	for _, leg := range legs {
		created, err := c.svc.Events.Insert(c.calendarID, toAPI(leg)).Context(ctx).Do()
		if err != nil {
			fmt.Fprintf(c.Progress, "  ! Failed to create %s: %v\n", leg.Summary, err)
			continue
		}
		fmt.Fprintf(c.Progress, "  ✓ Created: %s (%s)\n", leg.Summary, created.Id)
		succeeded++
	}
	return succeeded
}
