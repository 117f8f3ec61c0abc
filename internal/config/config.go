// Package config loads the glik command configuration from an HCL file and the
// environment.
package config

import (
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"

	glik "github.com/rivalz-glik/glik-go"
)

// Environment variables that override file settings.
const (
	EnvAPIKey    = "GLIK_API_KEY"
	EnvBaseURL   = "GLIK_BASE_URL"
	EnvDatasetID = "GLIK_DATASET_ID"
	EnvUser      = "GLIK_USER"
)

var baseURLPattern = regexp.MustCompile(`^https?://`)

// Config is the contents of a glik.hcl file.
type Config struct {
	APIKey    string `hcl:"api_key,optional" json:"api_key"`
	BaseURL   string `hcl:"base_url,optional" json:"base_url"`
	DatasetID string `hcl:"dataset_id,optional" json:"dataset_id"`
	User      string `hcl:"user,optional" json:"user"`
	LogLevel  string `hcl:"log_level,optional" json:"log_level"`

	Retry *Retry `hcl:"retry,block" json:"retry"`
}

// Retry configures exponential backoff for transport failures.
type Retry struct {
	Attempts  int    `hcl:"attempts" json:"attempts"`
	BaseDelay string `hcl:"base_delay,optional" json:"base_delay"`
}

// Validate checks the retry block.
func (r Retry) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Attempts, validation.Required, validation.Min(1)),
		validation.Field(&r.BaseDelay, validation.By(isDuration)),
	)
}

func isDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("must be a duration such as 500ms")
	}
	return nil
}

// Load reads path from fs when path is non-empty, then applies environment
// overrides through getenv. The result is not validated.
func Load(fs afero.Fs, path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		src, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := hclsimple.Decode(path, src, nil, cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	if getenv != nil {
		override(&cfg.APIKey, getenv(EnvAPIKey))
		override(&cfg.BaseURL, getenv(EnvBaseURL))
		override(&cfg.DatasetID, getenv(EnvDatasetID))
		override(&cfg.User, getenv(EnvUser))
	}

	return cfg, nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Validate checks the configuration is usable for API calls.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.BaseURL, validation.Match(baseURLPattern).Error("must start with http:// or https://")),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error", "off")),
		validation.Field(&c.Retry),
	)
}

// ClientConfig converts the file settings into a client configuration.
func (c *Config) ClientConfig(logger hclog.Logger, fs afero.Fs) glik.Config {
	return glik.Config{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Logger:  logger,
		Fs:      fs,
	}
}

// Options returns the pipeline options enabled by the file.
func (c *Config) Options() []glik.Option {
	if c.Retry == nil || c.Retry.Attempts <= 1 {
		return nil
	}
	delay, err := time.ParseDuration(c.Retry.BaseDelay)
	if err != nil || delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return []glik.Option{glik.WithBackoff(c.Retry.Attempts, delay)}
}
