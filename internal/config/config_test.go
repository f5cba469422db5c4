package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/timvw/prompt-selector/internal/model"
)

// envKeys lists every variable Load consults.
var envKeys = []string{
	"PROMPT_SELECTOR_BASE_URL", "PROMPT_SELECTOR_MODEL", "PROMPT_SELECTOR_THEME",
	"PROMPT_SELECTOR_BANNER", "PROMPT_SELECTOR_STARS", "PROMPT_SELECTOR_FRAME",
	"PROMPT_SELECTOR_EXPORT_DIR", "PROMPT_SELECTOR_LOG_FILE", "PROMPT_SELECTOR_LOG_LEVEL",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
}

// isolate points Load at an empty working directory and home, with a clean
// environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.BaseURL != "http://localhost:8000/api" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Errorf("Model: got %q, want %q", cfg.Model, "gpt-3.5-turbo")
	}
	if cfg.Banner != "3s" {
		t.Errorf("Banner: got %q, want %q", cfg.Banner, "3s")
	}
	if !cfg.StarsEnabled() {
		t.Error("stars should be on by default")
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q", cfg.Theme)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile: got %q, want empty", cfg.ConfigFile)
	}
	if cfg.BannerDuration != 3*time.Second {
		t.Errorf("BannerDuration: got %v", cfg.BannerDuration)
	}
	if cfg.ParamsA != model.DefaultParamsA() {
		t.Errorf("ParamsA: got %+v", cfg.ParamsA)
	}
	if cfg.ParamsB != model.DefaultParamsB() {
		t.Errorf("ParamsB: got %+v", cfg.ParamsB)
	}
}

func TestParseDurationOrDisable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMs  int64
		wantErr bool
	}{
		{"empty returns fallback", "", 3000, false},
		{"zero disables", "0", 0, false},
		{"off disables", "off", 0, false},
		{"disable disables", "disable", 0, false},
		{"valid duration", "5s", 5000, false},
		{"valid short duration", "500ms", 500, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDurationOrDisable(tt.input, 3*time.Second)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDurationOrDisable(%q): error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Milliseconds() != tt.wantMs {
				t.Errorf("parseDurationOrDisable(%q) = %v, want %dms", tt.input, got, tt.wantMs)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	content := `base_url: http://backend:9000/api
model: gpt-4o-mini
theme: light
banner: 5s
stars: false
export_dir: /tmp/exports
variant_b:
  temperature: 1.3
  max_tokens: 1000
`
	if err := os.WriteFile(filepath.Join(dir, ".prompt-selector.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ConfigFile != ".prompt-selector.yaml" {
		t.Errorf("ConfigFile: got %q", cfg.ConfigFile)
	}
	if cfg.BaseURL != "http://backend:9000/api" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model: got %q", cfg.Model)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme: got %q", cfg.Theme)
	}
	if cfg.BannerDuration != 5*time.Second {
		t.Errorf("BannerDuration: got %v", cfg.BannerDuration)
	}
	if cfg.StarsEnabled() {
		t.Error("stars should be disabled by file")
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("ExportDir: got %q", cfg.ExportDir)
	}

	// Unset fields keep the variant defaults.
	want := model.DefaultParamsB()
	want.Temperature = 1.3
	want.MaxTokens = 1000
	if cfg.ParamsB != want {
		t.Errorf("ParamsB: got %+v, want %+v", cfg.ParamsB, want)
	}
	if cfg.ParamsA != model.DefaultParamsA() {
		t.Errorf("ParamsA should be untouched: %+v", cfg.ParamsA)
	}
}

func TestLoadFromHomeConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".config", "prompt-selector", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("model: from-home\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Model != "from-home" {
		t.Errorf("Model: got %q", cfg.Model)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile: got %q, want %q", cfg.ConfigFile, path)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	content := `model: from-file
banner: 10s
stars: true
`
	if err := os.WriteFile(filepath.Join(dir, ".prompt-selector.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PROMPT_SELECTOR_MODEL", "from-env")
	t.Setenv("PROMPT_SELECTOR_BANNER", "off")
	t.Setenv("PROMPT_SELECTOR_STARS", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Model != "from-env" {
		t.Errorf("Model: got %q, want %q", cfg.Model, "from-env")
	}
	if cfg.BannerDuration != 0 {
		t.Errorf("BannerDuration: got %v, want 0", cfg.BannerDuration)
	}
	if cfg.StarsEnabled() {
		t.Error("env should disable stars")
	}
	if cfg.OTELEndpoint != "http://collector:4318" {
		t.Errorf("OTELEndpoint: got %q", cfg.OTELEndpoint)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad banner", "PROMPT_SELECTOR_BANNER", "soon"},
		{"bad frame", "PROMPT_SELECTOR_FRAME", "fast"},
		{"bad theme", "PROMPT_SELECTOR_THEME", "neon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q: expected error", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_ZeroFrameDisablesStars(t *testing.T) {
	isolate(t)
	t.Setenv("PROMPT_SELECTOR_FRAME", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StarsEnabled() {
		t.Error("a zero frame interval should disable the starfield")
	}
}

func TestVariantConfig_ApplyClamps(t *testing.T) {
	temp := 5.0
	tokens := 10
	got := VariantConfig{Temperature: &temp, MaxTokens: &tokens}.Apply(model.DefaultParamsA())
	if got.Temperature != 2 {
		t.Errorf("Temperature: got %v, want 2", got.Temperature)
	}
	if got.MaxTokens != 50 {
		t.Errorf("MaxTokens: got %d, want 50", got.MaxTokens)
	}
}

func TestIsOff(t *testing.T) {
	for _, v := range []string{"0", "false", "OFF", " no "} {
		if !isOff(v) {
			t.Errorf("isOff(%q) = false", v)
		}
	}
	for _, v := range []string{"1", "true", "on"} {
		if isOff(v) {
			t.Errorf("isOff(%q) = true", v)
		}
	}
}

func TestDefaultLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	if got := DefaultLogFile(); got != "/var/state/prompt-selector/prompt-selector.log" {
		t.Errorf("DefaultLogFile() = %q", got)
	}

	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)
	want := filepath.Join(home, ".local", "state", "prompt-selector", "prompt-selector.log")
	if got := DefaultLogFile(); got != want {
		t.Errorf("DefaultLogFile() = %q, want %q", got, want)
	}
}
