package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config is the root configuration for caltransit, stored in
// ~/.caltransit/config.json. The file supports single-line // comments for
// documentation purposes. Every field can also be overridden through a
// CALTRANSIT_* environment variable.
type Config struct {
	// HomeAddress is the start and end point of every day.
	HomeAddress string `json:"home_address" envconfig:"HOME_ADDRESS" validate:"required"`
	// DaysForward is the look-ahead window for fetching events.
	DaysForward int `json:"days_forward" envconfig:"DAYS_FORWARD" validate:"gte=1,lte=60"`
	// TransitColorID marks synthesized travel events ("8" is Graphite).
	TransitColorID string `json:"transit_color_id" envconfig:"TRANSIT_COLOR_ID" validate:"required"`
	// HoldColorID marks tentative events that are never transited to.
	HoldColorID string `json:"hold_color_id" envconfig:"HOLD_COLOR_ID"`
	// Timezone is the IANA timezone stamped onto synthesized events when the
	// source event carries none. Empty = carry the source offset only.
	Timezone string `json:"timezone" envconfig:"TIMEZONE"`
	// MapsAPIKey authenticates against the Google Maps Routes API.
	MapsAPIKey string `json:"maps_api_key" envconfig:"MAPS_API_KEY" validate:"required"`
	// ClientID and ClientSecret are the OAuth2 installed-app credentials for
	// Google Calendar access (device code flow).
	ClientID     string `json:"client_id" envconfig:"CLIENT_ID" validate:"required"`
	ClientSecret string `json:"client_secret" envconfig:"CLIENT_SECRET"`
	// VideoKeywords are substrings that mark a location as a video call.
	VideoKeywords []string `json:"video_keywords" envconfig:"VIDEO_KEYWORDS"`
	// LowTransitLocations are address substrings with no practical transit or
	// walking options; legs touching them are always driven.
	LowTransitLocations []string `json:"low_transit_locations" envconfig:"LOW_TRANSIT_LOCATIONS"`
	// HomeAirports are identifiers (e.g. "JFK", "LGA") used to recognise
	// outbound flights for trip detection.
	HomeAirports []string `json:"home_airports" envconfig:"HOME_AIRPORTS"`
	// DetectTrips enables whole-day suppression on flight/lodging days.
	DetectTrips bool `json:"detect_trips" envconfig:"DETECT_TRIPS"`
}

const (
	// DefaultDaysForward is the fetch window when none is configured.
	DefaultDaysForward = 7
	// DefaultTransitColorID is Google Calendar's "Graphite".
	DefaultTransitColorID = "8"
	// DefaultHoldColorID is Google Calendar's "Banana", conventionally used
	// for tentative holds.
	DefaultHoldColorID = "5"
)

// DefaultVideoKeywords are the video-platform substrings checked against
// event locations.
var DefaultVideoKeywords = []string{"zoom.us", "meet.google", "teams.microsoft", "webex"}

// defaultConfig returns a Config pre-filled with built-in defaults. The
// address, API key and OAuth client must be supplied by the user.
func defaultConfig() Config {
	return Config{
		DaysForward:    DefaultDaysForward,
		TransitColorID: DefaultTransitColorID,
		HoldColorID:    DefaultHoldColorID,
		VideoKeywords:  append([]string(nil), DefaultVideoKeywords...),
		DetectTrips:    true,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// caltransit configuration – ~/.caltransit/config.json
//
// Fill in home_address, maps_api_key and client_id before the first run.
// Every value here can also be set via a CALTRANSIT_* environment variable,
// e.g. CALTRANSIT_MAPS_API_KEY.
{
  // Where every day starts and ends.
  "home_address": "",

  // How many days ahead to plan travel for.
  "days_forward": 7,

  // Calendar color that marks synthesized travel events ("8" = Graphite).
  "transit_color_id": "8",

  // Calendar color for tentative holds; hold events are never transited to.
  "hold_color_id": "5",

  // IANA timezone stamped onto created events, e.g. "America/New_York".
  // Leave empty to carry the source event's own offset.
  "timezone": "",

  // Google Maps Routes API key (routes.googleapis.com must be enabled).
  "maps_api_key": "",

  // OAuth2 installed-app credentials for Google Calendar.
  "client_id": "",
  "client_secret": "",

  // Location substrings that mean "this is a video call, not a place".
  "video_keywords": ["zoom.us", "meet.google", "teams.microsoft", "webex"],

  // Address substrings where transit/walking is impractical; always drive.
  "low_transit_locations": [],

  // Airport codes near home, used to spot outbound flights ("JFK", "LGA").
  "home_airports": [],

  // Skip whole days on which a flight or hotel stay is detected.
  "detect_trips": true
}
`

// configFilePath returns the path to ~/.caltransit/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".caltransit", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.caltransit/config.json, creating it with annotated defaults
// on first run, then applies CALTRANSIT_* environment overrides. Load does
// not validate; call Validate before anything that needs credentials so a
// freshly created template does not fail immediately.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return loadFrom(path)
}

// loadFrom is Load with an explicit path, split out for tests.
func loadFrom(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return applyEnv(cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get a
	// usable Config even if the user only partially fills in the file.
	if cfg.DaysForward == 0 {
		cfg.DaysForward = DefaultDaysForward
	}
	if cfg.TransitColorID == "" {
		cfg.TransitColorID = DefaultTransitColorID
	}
	if cfg.HoldColorID == "" {
		cfg.HoldColorID = DefaultHoldColorID
	}
	if len(cfg.VideoKeywords) == 0 {
		cfg.VideoKeywords = append([]string(nil), DefaultVideoKeywords...)
	}

	return applyEnv(cfg)
}

// applyEnv overlays CALTRANSIT_* environment variables onto cfg.
func applyEnv(cfg Config) (Config, error) {
	if err := envconfig.Process("caltransit", &cfg); err != nil {
		return cfg, fmt.Errorf("applying environment overrides: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to run with.
// A missing home address, API key or OAuth client is a configuration defect,
// not a runtime condition to route around.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "HomeAddress":
				return fmt.Errorf("config: home_address is required (edit ~/.caltransit/config.json)")
			case "MapsAPIKey":
				return fmt.Errorf("config: maps_api_key is required (edit ~/.caltransit/config.json)")
			case "ClientID":
				return fmt.Errorf("config: client_id is required (edit ~/.caltransit/config.json)")
			case "DaysForward":
				return fmt.Errorf("config: days_forward must be between 1 and 60, got %d", c.DaysForward)
			}
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
