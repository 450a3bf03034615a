package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, EngineHTTP, cfg.FetchEngine)
	assert.Equal(t, 3, cfg.RateLimitRetries)
	assert.Equal(t, 5*time.Second, cfg.RateLimitBackoff)
	assert.Equal(t, 2*time.Second, cfg.DetailDelayMin)
	assert.Equal(t, 5*time.Second, cfg.DetailDelayMax)
	assert.Equal(t, 100, cfg.EbayEntriesPerPage)
	assert.True(t, cfg.RespectRobots)
}

func TestLoadReportsUnreadableEnvFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadFrom(dir)
	require.NoError(t, err)
	assert.Contains(t, cfg.EnvFileWarning, "could not be loaded")

	cfg, err = loadFrom(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, cfg.EnvFileWarning)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FETCH_ENGINE", "browser")
	t.Setenv("RATE_LIMIT_BACKOFF", "250ms")
	t.Setenv("DETAIL_DELAY_MAX", "10s")
	t.Setenv("RESPECT_ROBOTS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EngineBrowser, cfg.FetchEngine)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitBackoff)
	assert.Equal(t, 10*time.Second, cfg.DetailDelayMax)
	assert.False(t, cfg.RespectRobots)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			FetchEngine:        EngineHTTP,
			RateLimitRetries:   3,
			DetailDelayMin:     2 * time.Second,
			DetailDelayMax:     5 * time.Second,
			EbayEntriesPerPage: 100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"equal delays", func(c *Config) { c.DetailDelayMax = c.DetailDelayMin }, false},
		{"unknown engine", func(c *Config) { c.FetchEngine = "curl" }, true},
		{"negative retries", func(c *Config) { c.RateLimitRetries = -1 }, true},
		{"inverted delays", func(c *Config) { c.DetailDelayMin = 10 * time.Second }, true},
		{"page size too large", func(c *Config) { c.EbayEntriesPerPage = 101 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadVendorRulesMissingFile(t *testing.T) {
	set, err := LoadVendorRules(filepath.Join(t.TempDir(), "vendors.json5"))
	require.NoError(t, err)
	assert.Equal(t, []string{"generic", "google", "oneplus", "samsung"}, set.Names())
}

func TestLoadVendorRulesMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendors.json5")

	require.NoError(t, os.WriteFile(path, []byte(`{
		// extra deny words for OnePlus
		oneplus: {
			exclude: ["\\bpad\\b", "\\bnord\\s+buds\\b"],
		},
		apple: {
			start_url: "https://www.gsmarena.com/apple-phones-48.php",
			include: ["\\biphone\\b"],
			output: "apple_phones.json",
		},
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendors.local.json5"), []byte(`{
		apple: { output: "local_apple.json" },
	}`), 0o644))

	set, err := LoadVendorRules(path)
	require.NoError(t, err)

	oneplus, err := set.Lookup("OnePlus")
	require.NoError(t, err)
	assert.Equal(t, []string{`\bpad\b`, `\bnord\s+buds\b`}, oneplus.Exclude)
	assert.Equal(t, "oneplus_phones.json", oneplus.Output, "unset fields keep the built-in value")

	apple, err := set.Lookup("apple")
	require.NoError(t, err)
	assert.Equal(t, "local_apple.json", apple.Output)
	assert.Equal(t, []string{`\biphone\b`}, apple.Include)
}

func TestLoadVendorRulesBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{ google: [`), 0o644))

	_, err := LoadVendorRules(path)
	assert.Error(t, err)
}

func TestLookupUnknownVendor(t *testing.T) {
	_, err := DefaultVendors().Lookup("nokia")
	assert.ErrorContains(t, err, "unknown vendor")
}
