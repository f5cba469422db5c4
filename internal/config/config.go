// Package config loads prompt-selector configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (PROMPT_SELECTOR_*)
//  2. Config file
//  3. Built-in defaults
//
// Command-line flags are applied on top by the cmd package.
//
// Config file search order:
//  1. .prompt-selector.yaml in current directory
//  2. ~/.config/prompt-selector/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/timvw/prompt-selector/internal/api"
	"github.com/timvw/prompt-selector/internal/model"
	"gopkg.in/yaml.v3"
)

// Config holds all prompt-selector configuration.
type Config struct {
	// Backend
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`

	// Default sampling parameters per variant. Unset fields keep the
	// built-in defaults.
	VariantA VariantConfig `yaml:"variant_a"`
	VariantB VariantConfig `yaml:"variant_b"`

	// UI
	Theme  string `yaml:"theme"`  // "dark" or "light"
	Banner string `yaml:"banner"` // success banner lifetime, Go duration string
	Stars  *bool  `yaml:"stars"`  // decorative starfield
	Frame  string `yaml:"frame"`  // starfield frame interval, Go duration string

	// Export
	ExportDir string `yaml:"export_dir"`

	// Logging
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Resolved values (not from YAML, set after loading)
	ParamsA        model.SamplingParams `yaml:"-"`
	ParamsB        model.SamplingParams `yaml:"-"`
	BannerDuration time.Duration        `yaml:"-"`
	FrameInterval  time.Duration        `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// VariantConfig overrides individual sampling fields.
type VariantConfig struct {
	Temperature      *float64 `yaml:"temperature"`
	MaxTokens        *int     `yaml:"max_tokens"`
	TopP             *float64 `yaml:"top_p"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty"`
	PresencePenalty  *float64 `yaml:"presence_penalty"`
}

// Apply returns base with the configured fields replaced, clamped to range.
func (v VariantConfig) Apply(base model.SamplingParams) model.SamplingParams {
	if v.Temperature != nil {
		base.Temperature = *v.Temperature
	}
	if v.MaxTokens != nil {
		base.MaxTokens = *v.MaxTokens
	}
	if v.TopP != nil {
		base.TopP = *v.TopP
	}
	if v.FrequencyPenalty != nil {
		base.FrequencyPenalty = *v.FrequencyPenalty
	}
	if v.PresencePenalty != nil {
		base.PresencePenalty = *v.PresencePenalty
	}
	return base.Normalize()
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	stars := true
	return &Config{
		BaseURL:  api.DefaultBaseURL,
		Model:    model.DefaultModelName,
		Theme:    "dark",
		Banner:   "3s",
		Stars:    &stars,
		Frame:    "80ms",
		LogLevel: "info",
	}
}

// StarsEnabled reports whether the decorative starfield is on.
func (c *Config) StarsEnabled() bool {
	return c.Stars == nil || *c.Stars
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve fills the derived fields.
func (c *Config) resolve() error {
	var err error
	c.BannerDuration, err = parseDurationOrDisable(c.Banner, 3*time.Second)
	if err != nil {
		return fmt.Errorf("invalid banner duration %q: %w", c.Banner, err)
	}
	c.FrameInterval, err = parseDurationOrDisable(c.Frame, 80*time.Millisecond)
	if err != nil {
		return fmt.Errorf("invalid frame interval %q: %w", c.Frame, err)
	}
	if c.FrameInterval == 0 {
		off := false
		c.Stars = &off
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q (supported: dark, light)", c.Theme)
	}
	c.ParamsA = c.VariantA.Apply(model.DefaultParamsA())
	c.ParamsB = c.VariantB.Apply(model.DefaultParamsB())
	return nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	if data, err := os.ReadFile(".prompt-selector.yaml"); err == nil {
		return ".prompt-selector.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "prompt-selector", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	cfg.VariantA = mergeVariant(cfg.VariantA, file.VariantA)
	cfg.VariantB = mergeVariant(cfg.VariantB, file.VariantB)
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.Banner != "" {
		cfg.Banner = file.Banner
	}
	if file.Stars != nil {
		cfg.Stars = file.Stars
	}
	if file.Frame != "" {
		cfg.Frame = file.Frame
	}
	if file.ExportDir != "" {
		cfg.ExportDir = file.ExportDir
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

func mergeVariant(dst, src VariantConfig) VariantConfig {
	if src.Temperature != nil {
		dst.Temperature = src.Temperature
	}
	if src.MaxTokens != nil {
		dst.MaxTokens = src.MaxTokens
	}
	if src.TopP != nil {
		dst.TopP = src.TopP
	}
	if src.FrequencyPenalty != nil {
		dst.FrequencyPenalty = src.FrequencyPenalty
	}
	if src.PresencePenalty != nil {
		dst.PresencePenalty = src.PresencePenalty
	}
	return dst
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("PROMPT_SELECTOR_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_BANNER"); v != "" {
		cfg.Banner = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_STARS"); v != "" {
		on := !isOff(v)
		cfg.Stars = &on
	}
	if v := os.Getenv("PROMPT_SELECTOR_FRAME"); v != "" {
		cfg.Frame = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("PROMPT_SELECTOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

func isOff(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "off", "no", "disable":
		return true
	}
	return false
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
