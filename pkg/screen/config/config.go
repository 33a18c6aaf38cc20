// Package config loads the layered screener configuration: built-in
// defaults, then config.yaml, then config.local.yaml, then environment
// variables. Later layers win; filter defaults merge per key so a local
// file may override a single bound without restating the rest.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/optscreen/pkg/screen/params"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// BaseFile and LocalFile are the default layer paths, relative to the
// working directory. LocalFile is for per-machine overrides and is expected
// to stay out of version control.
const (
	BaseFile  = "config.yaml"
	LocalFile = "config.local.yaml"
)

// ServiceConfig points at the external analysis service.
type ServiceConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ReportURL      string `yaml:"report_url"`
}

// ServerConfig holds the serve-mode listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultsConfig seeds the initial screening parameters for a session.
type DefaultsConfig struct {
	ScreenerType string             `yaml:"screener_type"`
	PutTickers   string             `yaml:"put_tickers"`
	CallTickers  string             `yaml:"call_tickers"`
	Filters      map[string]float64 `yaml:"filters"`
}

// Config is the resolved, immutable configuration for one run.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Default returns the built-in base layer.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Endpoint:       "http://127.0.0.1:5000",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Defaults: DefaultsConfig{
			ScreenerType: string(types.ModeIncome),
			PutTickers:   "AAPL,MSFT,GOOGL",
			CallTickers:  "",
			Filters: map[string]float64{
				params.DTEMin:            0,
				params.DTEMax:            30,
				params.MinVolume:         100,
				params.MinOpenInterest:   500,
				params.PutDeltaMin:       0,
				params.PutDeltaMax:       0.30,
				params.CallDeltaMin:      0,
				params.CallDeltaMax:      0.30,
				params.PutOTMPercentMin:  5.0,
				params.PutOTMPercentMax:  15.0,
				params.CallOTMPercentMin: 5.0,
				params.CallOTMPercentMax: 15.0,
				params.BuyCallDeltaMin:   0.4,
				params.BuyCallDeltaMax:   1.0,
				params.BuyPutDeltaMin:    -1.0,
				params.BuyPutDeltaMax:    -0.4,
			},
		},
	}
}

// Load resolves the configuration from the given file layers in order,
// starting from the built-in defaults and finishing with environment
// overrides. Missing files are skipped; a malformed file is an error.
// With no paths the standard base and local files are used.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{BaseFile, LocalFile}
	}

	cfg := Default()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		// Unmarshal into the already-populated struct: keys present in the
		// file overwrite, absent keys keep the prior layer, and map fields
		// merge per key.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads OPTSCREEN_* environment variables through viper.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("OPTSCREEN")
	v.AutomaticEnv()

	if s := v.GetString("ENDPOINT"); s != "" {
		cfg.Service.Endpoint = s
	}
	if n := v.GetInt("TIMEOUT_SECONDS"); n > 0 {
		cfg.Service.TimeoutSeconds = n
	}
	if s := v.GetString("REPORT_URL"); s != "" {
		cfg.Service.ReportURL = s
	}
	if s := v.GetString("LOG_LEVEL"); s != "" {
		cfg.Logging.Level = s
	}
	if s := v.GetString("LOG_FORMAT"); s != "" {
		cfg.Logging.Format = s
	}
	if s := v.GetString("HOST"); s != "" {
		cfg.Server.Host = s
	}
	if n := v.GetInt("PORT"); n > 0 {
		cfg.Server.Port = n
	}
}

func (c *Config) validate() error {
	mode := types.Mode(strings.ToLower(c.Defaults.ScreenerType))
	if !mode.Valid() {
		return fmt.Errorf("defaults.screener_type must be %q or %q, got %q",
			types.ModeIncome, types.ModeBuy, c.Defaults.ScreenerType)
	}
	if c.Service.TimeoutSeconds <= 0 {
		return fmt.Errorf("service.timeout_seconds must be positive, got %d", c.Service.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the analysis request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

// ReportURL returns the configured static report location, defaulting to
// ANALYSIS.md next to the analyze endpoint.
func (c *Config) ReportURL() string {
	if c.Service.ReportURL != "" {
		return c.Service.ReportURL
	}
	return strings.TrimRight(c.Service.Endpoint, "/") + "/ANALYSIS.md"
}

// Parameters builds the initial screening parameters from the resolved
// defaults. Ticker strings run through the same normalization as user
// edits.
func (c *Config) Parameters() params.Parameters {
	filters := make(params.Filters, len(c.Defaults.Filters))
	for name, val := range c.Defaults.Filters {
		filters[name] = params.Number(val)
	}
	return params.Parameters{
		ScreenerType: types.Mode(strings.ToLower(c.Defaults.ScreenerType)),
		PutTickers:   params.NormalizeTickers(c.Defaults.PutTickers),
		CallTickers:  params.NormalizeTickers(c.Defaults.CallTickers),
		Filters:      filters,
	}
}
