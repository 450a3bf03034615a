package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Fetch engines selectable with FETCH_ENGINE.
const (
	EngineHTTP    = "http"
	EngineBrowser = "browser"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	VendorRulesPath  string `envconfig:"VENDOR_RULES" default:"vendors.json5"`
	FetchEngine      string `envconfig:"FETCH_ENGINE" default:"http"`
	ChromeBin        string `envconfig:"CHROME_BIN"`
	ListingUserAgent string `envconfig:"LISTING_USER_AGENT" default:"Mozilla/5.0"`

	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	RandomUserAgent  bool          `envconfig:"RANDOM_USER_AGENT" default:"true"`
	CloudflareBypass bool          `envconfig:"CLOUDFLARE_BYPASS" default:"false"`
	RespectRobots    bool          `envconfig:"RESPECT_ROBOTS" default:"true"`

	// 429 responses on detail pages are retried this many extra times,
	// waiting RateLimitBackoff, then twice that, and so on.
	RateLimitRetries int           `envconfig:"RATE_LIMIT_RETRIES" default:"3"`
	RateLimitBackoff time.Duration `envconfig:"RATE_LIMIT_BACKOFF" default:"5s"`

	DetailDelayMin time.Duration `envconfig:"DETAIL_DELAY_MIN" default:"2s"`
	DetailDelayMax time.Duration `envconfig:"DETAIL_DELAY_MAX" default:"5s"`

	EbayAppID          string `envconfig:"EBAY_APP_ID"`
	EbayFindingURL     string `envconfig:"EBAY_FINDING_URL" default:"https://svcs.ebay.com/services/search/FindingService/v1"`
	EbayEntriesPerPage int    `envconfig:"EBAY_ENTRIES_PER_PAGE" default:"100"`

	// EnvFileWarning is set when a .env file exists but could not be read.
	// Callers log it once their logger is configured.
	EnvFileWarning string `ignored:"true"`
}

// Load reads the .env file (if any) and returns a validated Config.
func Load() (*Config, error) {
	return loadFrom(".env")
}

func loadFrom(envFile string) (*Config, error) {
	var warning string
	if err := godotenv.Load(envFile); err != nil {
		if _, statErr := os.Stat(envFile); statErr == nil {
			warning = fmt.Sprintf("%s found but could not be loaded: %v", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.EnvFileWarning = warning
	return &cfg, nil
}

// Validate rejects combinations the scrapers cannot run with.
func (c *Config) Validate() error {
	switch c.FetchEngine {
	case EngineHTTP, EngineBrowser:
	default:
		return fmt.Errorf("config: unknown FETCH_ENGINE %q (want %q or %q)", c.FetchEngine, EngineHTTP, EngineBrowser)
	}
	if c.RateLimitRetries < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RETRIES must be >= 0, got %d", c.RateLimitRetries)
	}
	if c.DetailDelayMin < 0 || c.DetailDelayMin > c.DetailDelayMax {
		return fmt.Errorf("config: need 0 <= DETAIL_DELAY_MIN (%v) <= DETAIL_DELAY_MAX (%v)",
			c.DetailDelayMin, c.DetailDelayMax)
	}
	if c.EbayEntriesPerPage <= 0 || c.EbayEntriesPerPage > 100 {
		return fmt.Errorf("config: EBAY_ENTRIES_PER_PAGE must be in 1..100, got %d", c.EbayEntriesPerPage)
	}
	return nil
}
