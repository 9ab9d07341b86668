// Package routes wraps the Google Maps Routes API as the travel-time oracle.
// It owns the per-request timeout, the transient/permanent error
// classification, and the transit-then-driving preference used when planning
// a leg.
package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"caltransit/internal/model"
)

const computeRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

const (
	// DefaultTimeout bounds each individual oracle call.
	DefaultTimeout = 10 * time.Second
	// DefaultFallbackMinutes is the transit duration above which driving is
	// also queried and the faster of the two wins.
	DefaultFallbackMinutes = 80
)

// Error is a transport or protocol failure from the route oracle. Transient
// errors (network failures, timeouts, HTTP 5xx) may be retried by a caller;
// the client itself never retries.
type Error struct {
	Op         string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("routes: %s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("routes: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client queries the Routes API. It is safe for sequential reuse; the engine
// issues all queries from a single goroutine.
type Client struct {
	APIKey          string
	HTTPClient      *http.Client
	BaseURL         string
	Timeout         time.Duration
	FallbackMinutes int
}

// NewClient creates a Client with default timeout and fallback threshold.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:          apiKey,
		HTTPClient:      http.DefaultClient,
		BaseURL:         computeRoutesURL,
		Timeout:         DefaultTimeout,
		FallbackMinutes: DefaultFallbackMinutes,
	}
}

// computeRequest is the computeRoutes request body.
type computeRequest struct {
	Origin        waypoint `json:"origin"`
	Destination   waypoint `json:"destination"`
	TravelMode    string   `json:"travelMode"`
	DepartureTime string   `json:"departureTime,omitempty"`
}

type waypoint struct {
	Address string `json:"address"`
}

// computeResponse is the subset of the computeRoutes response we request via
// the field mask. An empty Routes slice means no viable route was found.
type computeResponse struct {
	Routes []struct {
		Duration       string `json:"duration"`
		DistanceMeters int    `json:"distanceMeters"`
	} `json:"routes"`
}

// travelModeParam maps our mode tags onto Routes API enum values.
func travelModeParam(mode model.TravelMode) string {
	switch mode {
	case model.ModeDrive:
		return "DRIVE"
	case model.ModeWalk:
		return "WALK"
	default:
		return "TRANSIT"
	}
}

// parseDurationMinutes converts a Routes API duration like "1845s" into whole
// minutes, rounded up. Durations are never reported as zero.
func parseDurationMinutes(d string) (int, error) {
	secs, err := strconv.ParseInt(strings.TrimSuffix(d, "s"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse duration %q: %w", d, err)
	}
	minutes := int((secs + 59) / 60)
	if minutes < 1 {
		minutes = 1
	}
	return minutes, nil
}

// Route queries travel time for a single mode. It returns (nil, nil) when the
// oracle succeeds but finds no viable route; callers must distinguish that
// from an *Error. departure may be the zero time when unknown.
func (c *Client) Route(ctx context.Context, origin, destination string, mode model.TravelMode, departure time.Time) (*model.RouteResult, error) {
	op := fmt.Sprintf("%s %s → %s", strings.ToLower(string(mode)), origin, destination)

	body := computeRequest{
		Origin:      waypoint{Address: origin},
		Destination: waypoint{Address: destination},
		TravelMode:  travelModeParam(mode),
	}
	// Schedule-aware estimates; the API rejects departure times on WALK.
	if !departure.IsZero() && mode != model.ModeWalk {
		body.DepartureTime = departure.UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = computeRoutesURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	req.Header.Set("X-Goog-FieldMask", "routes.duration,routes.distanceMeters")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		// Network failures and request timeouts are transient.
		return nil, &Error{Op: op, Transient: true, Err: err}
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &Error{Op: op, Transient: true, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Transient:  resp.StatusCode >= 500,
			Err:        errors.New(strings.TrimSpace(string(respBody))),
		}
	}

	var parsed computeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(parsed.Routes) == 0 {
		// Successful response, no viable route. Not an error.
		return nil, nil
	}

	minutes, err := parseDurationMinutes(parsed.Routes[0].Duration)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return &model.RouteResult{
		Minutes:        minutes,
		DistanceMeters: parsed.Routes[0].DistanceMeters,
		Mode:           mode,
	}, nil
}

// QueryLeg plans one leg between two addresses. Unless forced to drive it
// prefers transit: a transit route at or under FallbackMinutes is accepted
// directly; a longer one is raced against driving and the faster wins, with
// ties going to transit; no transit route at all falls back to driving.
func (c *Client) QueryLeg(ctx context.Context, origin, destination string, forceDrive bool, departure time.Time) (*model.RouteResult, error) {
	if forceDrive {
		return c.Route(ctx, origin, destination, model.ModeDrive, departure)
	}

	transit, err := c.Route(ctx, origin, destination, model.ModeTransit, departure)
	if err != nil {
		return nil, err
	}
	if transit == nil {
		// No transit route; driving is the sole fallback.
		return c.Route(ctx, origin, destination, model.ModeDrive, departure)
	}

	fallback := c.FallbackMinutes
	if fallback <= 0 {
		fallback = DefaultFallbackMinutes
	}
	if transit.Minutes <= fallback {
		return transit, nil
	}

	drive, err := c.Route(ctx, origin, destination, model.ModeDrive, departure)
	if err != nil || drive == nil {
		// The transit answer is still usable; degrade rather than fail.
		return transit, nil
	}
	if drive.Minutes < transit.Minutes {
		return drive, nil
	}
	return transit, nil
}
