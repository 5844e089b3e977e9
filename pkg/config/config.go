// Package config loads server configuration from config.yaml with
// environment variable overrides. Secrets (the OAuth client secret) must
// only come from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the Datasphere MCP connector.
// Environment variables always override YAML values; `yaml:"-"` fields are
// env-only.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8799"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Transport selects how the MCP server is exposed: "http" (streamable
	// HTTP under /mcp) or "stdio".
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"http"`

	Tenant  TenantConfig  `yaml:"tenant"`
	Limits  LimitsConfig  `yaml:"limits"`
	Search  SearchConfig  `yaml:"search"`
	Profile ProfileConfig `yaml:"profile"`
	Cache   CacheConfig   `yaml:"cache"`
}

// TenantConfig identifies the Datasphere tenant and its OAuth client.
type TenantConfig struct {
	TenantURL     string `yaml:"tenant_url" env:"DATASPHERE_TENANT_URL" env-default:""`
	OAuthTokenURL string `yaml:"oauth_token_url" env:"DATASPHERE_OAUTH_TOKEN_URL" env-default:""`
	ClientID      string `yaml:"-" env:"DATASPHERE_CLIENT_ID"`     // Secret-adjacent - not in YAML
	ClientSecret  string `yaml:"-" env:"DATASPHERE_CLIENT_SECRET"` // Secret - not in YAML

	// TimeoutSeconds bounds each HTTP call to the tenant.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"DATASPHERE_TIMEOUT_SECONDS" env-default:"30"`

	// MockMode serves the built-in fixture dataset instead of a real
	// tenant. The fixture is selected here, at construction time; nothing
	// inside the engine consults this flag.
	MockMode bool `yaml:"mock_mode" env:"DATASPHERE_MOCK_MODE" env-default:"false"`

	// FixturePath points at a YAML fixture dataset to serve in mock mode.
	// Empty means the built-in dataset.
	FixturePath string `yaml:"fixture_path" env:"DATASPHERE_FIXTURE_PATH" env-default:""`
}

// Validate checks that enough of the tenant is configured to construct a
// client. Mock mode needs nothing.
func (t TenantConfig) Validate() error {
	if t.MockMode {
		return nil
	}
	if t.TenantURL == "" {
		return fmt.Errorf("DATASPHERE_TENANT_URL is not configured")
	}
	if t.OAuthTokenURL == "" {
		return fmt.Errorf("DATASPHERE_OAUTH_TOKEN_URL is not configured")
	}
	if t.ClientID == "" || t.ClientSecret == "" {
		return fmt.Errorf("OAuth client credentials are not configured")
	}
	return nil
}

// LimitsConfig caps rows returned to the agent regardless of what it asks
// for. Requested tops above a cap are clamped, and the clamp is reported in
// the tool result meta.
type LimitsConfig struct {
	MaxRowsPreview    int `yaml:"max_rows_preview" env:"DATASPHERE_MAX_ROWS_PREVIEW" env-default:"100"`
	MaxRowsQuery      int `yaml:"max_rows_query" env:"DATASPHERE_MAX_ROWS_QUERY" env-default:"500"`
	DefaultPreviewTop int `yaml:"default_preview_top" env:"DATASPHERE_DEFAULT_PREVIEW_TOP" env-default:"20"`
}

// SearchConfig is the default scan budget for column discovery.
type SearchConfig struct {
	MaxAssets         int `yaml:"max_assets" env:"DATASPHERE_SEARCH_MAX_ASSETS" env-default:"100"`
	MaxSpaces         int `yaml:"max_spaces" env:"DATASPHERE_SEARCH_MAX_SPACES" env-default:"10"`
	MaxAssetsPerSpace int `yaml:"max_assets_per_space" env:"DATASPHERE_SEARCH_MAX_ASSETS_PER_SPACE" env-default:"25"`
	Limit             int `yaml:"limit" env:"DATASPHERE_SEARCH_LIMIT" env-default:"20"`
}

// ProfileConfig exposes the profiling heuristics. The thresholds have no
// principled derivation; deployments tune them rather than accept magic
// numbers.
type ProfileConfig struct {
	SampleTop              int     `yaml:"sample_top" env:"DATASPHERE_PROFILE_SAMPLE_TOP" env-default:"100"`
	MaxExampleValues       int     `yaml:"max_example_values" env:"DATASPHERE_PROFILE_MAX_EXAMPLES" env-default:"5"`
	CategoricalMinDistinct int     `yaml:"categorical_min_distinct" env:"DATASPHERE_PROFILE_CATEGORICAL_MIN_DISTINCT" env-default:"10"`
	CategoricalMaxRatio    float64 `yaml:"categorical_max_ratio" env:"DATASPHERE_PROFILE_CATEGORICAL_MAX_RATIO" env-default:"0.2"`
	TopValueCap            int     `yaml:"top_value_cap" env:"DATASPHERE_PROFILE_TOP_VALUE_CAP" env-default:"10"`
	IDUniqueRatio          float64 `yaml:"id_unique_ratio" env:"DATASPHERE_PROFILE_ID_UNIQUE_RATIO" env-default:"0.98"`
}

// CacheConfig controls the metadata TTL cache. Zero TTL or zero entries
// disables caching entirely.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" env:"DATASPHERE_CACHE_TTL_SECONDS" env-default:"60"`
	MaxEntries int `yaml:"max_entries" env:"DATASPHERE_CACHE_MAX_ENTRIES" env-default:"128"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is fine; the environment alone is enough
// for stdio deployments.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Transport != "http" && c.Transport != "stdio" {
		return fmt.Errorf("invalid transport %q: must be \"http\" or \"stdio\"", c.Transport)
	}
	if !c.Tenant.MockMode && c.Tenant.TenantURL == "" {
		return fmt.Errorf("tenant_url is required unless mock_mode is enabled")
	}
	return nil
}
