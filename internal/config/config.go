// =============================================================================
// Locus Order Manager - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (config.yaml):
//   endpoints: Locus upload URL and line-item-update URL template
//   dispatch:  worker pool size and optional request rate limit
//   http:      client timeout and user agent
//   log:       level, format and output of the zap logger
//   csv:       input delimiter
//
// A missing file is not an error: every setting has a default, so the tool
// runs with no configuration at all. Credentials are never read from or
// written to this file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OrderIDPlaceholder marks where the order id goes in UpdateURLTemplate.
const OrderIDPlaceholder = "{id}"

// Default endpoint values.
const (
	DefaultUploadURL         = "https://oms.locus-api.com/v1/client/japfa-id-devo/order/"
	DefaultUpdateURLTemplate = "https://lily-pre-prod.locus-api.com/oms/v1/client/japfa-id-devo/order/{id}/line-item-update"
	DefaultWorkers           = 5
	DefaultTimeout           = 60 * time.Second
	DefaultUserAgent         = "locus-order-manager/1.0"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	Endpoints EndpointSettings `yaml:"endpoints"`
	Dispatch  DispatchSettings `yaml:"dispatch"`
	HTTP      HTTPSettings     `yaml:"http"`
	Log       LogSettings      `yaml:"log"`
	CSV       CSVSettings      `yaml:"csv"`
}

// EndpointSettings holds the Locus API endpoints.
type EndpointSettings struct {
	// UploadURL receives the batched new-order request.
	UploadURL string `yaml:"upload_url"`

	// UpdateURLTemplate is the line-item-update endpoint. The literal
	// "{id}" is replaced by the (path-escaped) order id.
	UpdateURLTemplate string `yaml:"update_url_template"`
}

// DispatchSettings controls the update worker pool.
type DispatchSettings struct {
	// Workers is the number of concurrent update requests.
	// Default: 5
	Workers int `yaml:"workers"`

	// RequestsPerSecond throttles request starts across all workers.
	// 0 disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// HTTPSettings configures the outbound HTTP client.
type HTTPSettings struct {
	// Timeout bounds a single request, including reading the body.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	// Level: debug, info, warn, error. Default: info
	Level string `yaml:"level"`

	// Format: console or json. Default: console
	Format string `yaml:"format"`

	// Output: stdout, stderr or a file path. Default: stderr
	Output string `yaml:"output"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Common values: ",", ";", "|", "tab".
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. If the file does not
//     exist the defaults are returned.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file exists but cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses YAML configuration content.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Endpoints.UploadURL == "" {
		config.Endpoints.UploadURL = DefaultUploadURL
	}
	if config.Endpoints.UpdateURLTemplate == "" {
		config.Endpoints.UpdateURLTemplate = DefaultUpdateURLTemplate
	}
	if config.Dispatch.Workers == 0 {
		config.Dispatch.Workers = DefaultWorkers
	}
	if config.HTTP.Timeout == 0 {
		config.HTTP.Timeout = DefaultTimeout
	}
	if config.HTTP.UserAgent == "" {
		config.HTTP.UserAgent = DefaultUserAgent
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	if config.Log.Output == "" {
		config.Log.Output = "stderr"
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := url.ParseRequestURI(config.Endpoints.UploadURL); err != nil {
		return fmt.Errorf("endpoints.upload_url: %w", err)
	}

	if !strings.Contains(config.Endpoints.UpdateURLTemplate, OrderIDPlaceholder) {
		return fmt.Errorf("endpoints.update_url_template must contain %s", OrderIDPlaceholder)
	}
	sample := strings.ReplaceAll(config.Endpoints.UpdateURLTemplate, OrderIDPlaceholder, "x")
	if _, err := url.ParseRequestURI(sample); err != nil {
		return fmt.Errorf("endpoints.update_url_template: %w", err)
	}

	if config.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch.workers must be at least 1, got %d", config.Dispatch.Workers)
	}
	if config.Dispatch.RequestsPerSecond < 0 {
		return fmt.Errorf("dispatch.requests_per_second must not be negative")
	}
	if config.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}

	return nil
}
