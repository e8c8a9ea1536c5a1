package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	Locator LocatorConfig `mapstructure:"locator"`
	Line    LineConfig    `mapstructure:"line"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Reply   ReplyConfig   `mapstructure:"reply"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// SheetsConfig locates the price feed. Credentials come either inline
// (credentials_json, usually via ${ENV} expansion) or from a key file.
type SheetsConfig struct {
	SpreadsheetID   string            `mapstructure:"spreadsheet_id"`
	ReadRange       string            `mapstructure:"read_range"`
	CredentialsJSON string            `mapstructure:"credentials_json"`
	CredentialsFile string            `mapstructure:"credentials_file"`
	DateColumn      string            `mapstructure:"date_column"`
	WeekdayColumn   string            `mapstructure:"weekday_column"`
	TimeColumn      string            `mapstructure:"time_column"`
	Columns         map[string]string `mapstructure:"columns"` // header label -> kind
}

// Credentials resolves the service-account key bytes.
func (s SheetsConfig) Credentials() ([]byte, error) {
	if s.CredentialsJSON != "" {
		return []byte(s.CredentialsJSON), nil
	}
	if s.CredentialsFile != "" {
		b, err := os.ReadFile(s.CredentialsFile)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("reading credentials file: %w", err))
		}
		return b, nil
	}
	return nil, nil
}

type LocatorConfig struct {
	MaxLookbackDays int `mapstructure:"max_lookback_days"`
}

type LineConfig struct {
	ChannelSecret      string `mapstructure:"channel_secret"`
	ChannelAccessToken string `mapstructure:"channel_access_token"`
}

// PricingConfig names the adjustment variants. Offsets are flat per-kind
// amounts; the retail variant is implicit and always unadjusted.
type PricingConfig struct {
	Variants map[string]map[string]float64 `mapstructure:"variants"`
}

type ReplyConfig struct {
	TemplatePath          string   `mapstructure:"template_path"`
	Sentinel              string   `mapstructure:"sentinel"`
	PriceTriggers         []string `mapstructure:"price_triggers"`
	MemberTriggers        []string `mapstructure:"member_triggers"`
	RecyclingTriggers     []string `mapstructure:"recycling_triggers"`
	RecyclingInfo         string   `mapstructure:"recycling_info"`
	SourceUnavailableText string   `mapstructure:"source_unavailable_text"`
	NoRecentDataText      string   `mapstructure:"no_recent_data_text"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Locator: LocatorConfig{
			MaxLookbackDays: 7,
		},
		Pricing: PricingConfig{
			Variants: map[string]map[string]float64{
				"member": {
					"gold_sell": -200,
					"gold_buy":  300,
				},
			},
		},
		Reply: ReplyConfig{
			Sentinel: "-",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Locator.MaxLookbackDays < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_lookback_days cannot be negative, got %d", c.Locator.MaxLookbackDays))
	}

	for variant, offsets := range c.Pricing.Variants {
		for kind := range offsets {
			if _, ok := core.ParseKind(kind); !ok {
				return core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("variant %q adjusts unknown kind %q", variant, kind))
			}
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("metrics path must start with /, got %q", c.Metrics.Path))
	}

	return nil
}

// ValidateServe checks the fields only the webhook server needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Line.ChannelSecret == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("line.channel_secret is required"))
	}
	if c.Line.ChannelAccessToken == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("line.channel_access_token is required"))
	}
	if c.Sheets.SpreadsheetID == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("sheets.spreadsheet_id is required"))
	}
	if c.Sheets.ReadRange == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("sheets.read_range is required"))
	}
	return nil
}

// Variant resolves a named pricing variant to typed per-kind offsets.
// Unknown names and "retail" both mean no adjustment.
func (c *Config) Variant(name string) (map[core.Kind]float64, bool) {
	raw, ok := c.Pricing.Variants[name]
	if !ok {
		return nil, false
	}
	offsets := make(map[core.Kind]float64, len(raw))
	for kindName, offset := range raw {
		if kind, ok := core.ParseKind(kindName); ok {
			offsets[kind] = offset
		}
	}
	return offsets, true
}
