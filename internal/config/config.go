package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrNoEventSource   = errors.New("either S3_BUCKET or SOURCE_DIR must be set")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Event source: S3 when S3_BUCKET is set, otherwise SOURCE_DIR.
	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string `envconfig:"S3_BUCKET"`
	S3Prefix           string `envconfig:"S3_PREFIX"`
	SourceDir          string `envconfig:"SOURCE_DIR"`

	// Spend feed
	SpendFeedURL      string        `envconfig:"SPEND_FEED_URL"`
	SpendTimezone     string        `envconfig:"SPEND_TIMEZONE" default:"America/New_York"`
	SpendLookbackDays int           `envconfig:"SPEND_LOOKBACK_DAYS" default:"0"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Day truncation
	JoinTimezone    string `envconfig:"JOIN_TIMEZONE" default:"UTC"`
	DisplayTimezone string `envconfig:"DISPLAY_TIMEZONE" default:"UTC"`

	ChannelMapFile string `envconfig:"CHANNEL_MAP_FILE" default:"configs/channels.yaml"`

	// Snapshots
	SnapshotCSVPath  string `envconfig:"SNAPSHOT_CSV_PATH" default:"data/all_calendly_invites.csv"`
	SnapshotXLSXPath string `envconfig:"SNAPSHOT_XLSX_PATH" default:"data/all_calendly_invites.xlsx"`
	PostgresDSN      string `envconfig:"POSTGRES_DSN"`

	// Batch runs push their metrics here when set.
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ValidateIngest checks what a pipeline run needs beyond the defaults.
func (c Config) ValidateIngest() error {
	if c.S3Bucket == "" && c.SourceDir == "" {
		return ErrNoEventSource
	}
	if c.SpendFeedURL == "" {
		return errors.New("SPEND_FEED_URL must be set")
	}
	if c.SpendLookbackDays < 0 {
		return errors.New("SPEND_LOOKBACK_DAYS must not be negative")
	}
	for _, tz := range []string{c.SpendTimezone, c.JoinTimezone, c.DisplayTimezone} {
		if _, err := Location(tz); err != nil {
			return err
		}
	}
	return nil
}

// Location resolves an IANA zone name. Empty means UTC.
func Location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}
