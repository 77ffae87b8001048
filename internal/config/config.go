package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/chorus/internal/providers"
)

// Config represents the chorus configuration.
type Config struct {
	MaxTokens      int             `yaml:"maxTokens"`
	MaxInputBytes  int             `yaml:"maxInputBytes"`
	TimeoutSeconds int             `yaml:"timeoutSeconds"`
	LogLevel       string          `yaml:"logLevel"`
	EnvFile        string          `yaml:"envFile,omitempty"`
	Providers      ProvidersConfig `yaml:"providers"`
	Privacy        PrivacyConfig   `yaml:"privacy"`
	Telemetry      TelemetryConfig `yaml:"telemetry"`
}

// ProvidersConfig holds per-provider model and endpoint settings. API keys
// never live in the config file.
type ProvidersConfig struct {
	Anthropic ProviderConfig `yaml:"anthropic"`
	OpenAI    ProviderConfig `yaml:"openai"`
	Gemini    ProviderConfig `yaml:"gemini"`
}

// ProviderConfig overrides one provider's model or base URL.
type ProviderConfig struct {
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"baseURL,omitempty"`
}

// PrivacyConfig controls redaction of code before it leaves the machine.
type PrivacyConfig struct {
	RedactSecrets *bool `yaml:"redactSecrets,omitempty"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlpEndpoint,omitempty"`
	ServiceName  string `yaml:"serviceName,omitempty"`
}

// Redact reports whether secret redaction is enabled.
func (c Config) Redact() bool {
	return c.Privacy.RedactSecrets == nil || *c.Privacy.RedactSecrets
}

// ProviderSettings converts the config into provider construction options.
func (c Config) ProviderSettings(creds providers.Credentials) providers.SetOptions {
	return providers.SetOptions{
		Credentials: creds,
		Anthropic:   providers.Settings(c.Providers.Anthropic),
		OpenAI:      providers.Settings(c.Providers.OpenAI),
		Gemini:      providers.Settings(c.Providers.Gemini),
		MaxTokens:   c.MaxTokens,
	}
}

// Default returns a Config with all defaults applied.
func Default() Config {
	redact := true
	return Config{
		MaxTokens:      providers.DefaultMaxTokens,
		MaxInputBytes:  100000,
		TimeoutSeconds: 120,
		LogLevel:       "info",
		EnvFile:        ".env",
		Privacy:        PrivacyConfig{RedactSecrets: &redact},
		Telemetry:      TelemetryConfig{ServiceName: "chorus"},
	}
}

// ConfigDir returns the platform-appropriate config directory for chorus.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chorus"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "chorus"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chorus"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "chorus"), nil
	default:
		return filepath.Join(home, ".config", "chorus"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	if p := os.Getenv("CHORUS_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	for k, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(&cfg, k, v); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.MaxInputBytes != 0 {
		dst.MaxInputBytes = src.MaxInputBytes
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.EnvFile != "" {
		dst.EnvFile = src.EnvFile
	}
	mergeProvider(&dst.Providers.Anthropic, src.Providers.Anthropic)
	mergeProvider(&dst.Providers.OpenAI, src.Providers.OpenAI)
	mergeProvider(&dst.Providers.Gemini, src.Providers.Gemini)
	if src.Privacy.RedactSecrets != nil {
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
	if src.Telemetry.OTLPEndpoint != "" {
		dst.Telemetry.OTLPEndpoint = src.Telemetry.OTLPEndpoint
	}
	if src.Telemetry.ServiceName != "" {
		dst.Telemetry.ServiceName = src.Telemetry.ServiceName
	}
}

func mergeProvider(dst *ProviderConfig, src ProviderConfig) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
}

// envKeys maps environment variables to config keys understood by SetField.
var envKeys = []struct{ env, key string }{
	{"CHORUS_MAX_TOKENS", "maxTokens"},
	{"CHORUS_MAX_INPUT_BYTES", "maxInputBytes"},
	{"CHORUS_TIMEOUT_SECONDS", "timeoutSeconds"},
	{"CHORUS_LOG_LEVEL", "logLevel"},
	{"CHORUS_ENV_FILE", "envFile"},
	{"CHORUS_REDACT_SECRETS", "privacy.redactSecrets"},
	{"CHORUS_ANTHROPIC_MODEL", "providers.anthropic.model"},
	{"CHORUS_ANTHROPIC_BASE_URL", "providers.anthropic.baseURL"},
	{"CHORUS_OPENAI_MODEL", "providers.openai.model"},
	{"CHORUS_OPENAI_BASE_URL", "providers.openai.baseURL"},
	{"CHORUS_GEMINI_MODEL", "providers.gemini.model"},
	{"CHORUS_GEMINI_BASE_URL", "providers.gemini.baseURL"},
	{"OTEL_EXPORTER_OTLP_ENDPOINT", "telemetry.otlpEndpoint"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "maxTokens":
		return setInt(&cfg.MaxTokens, key, value)
	case "maxInputBytes":
		return setInt(&cfg.MaxInputBytes, key, value)
	case "timeoutSeconds":
		return setInt(&cfg.TimeoutSeconds, key, value)
	case "logLevel":
		if _, err := ParseLogLevel(value); err != nil {
			return err
		}
		cfg.LogLevel = value
	case "envFile":
		cfg.EnvFile = value
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		cfg.Privacy.RedactSecrets = &b
	case "providers.anthropic.model":
		cfg.Providers.Anthropic.Model = value
	case "providers.anthropic.baseURL":
		cfg.Providers.Anthropic.BaseURL = value
	case "providers.openai.model":
		cfg.Providers.OpenAI.Model = value
	case "providers.openai.baseURL":
		cfg.Providers.OpenAI.BaseURL = value
	case "providers.gemini.model":
		cfg.Providers.Gemini.Model = value
	case "providers.gemini.baseURL":
		cfg.Providers.Gemini.BaseURL = value
	case "telemetry.otlpEndpoint":
		cfg.Telemetry.OTLPEndpoint = value
	case "telemetry.serviceName":
		cfg.Telemetry.ServiceName = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

// LoadCredentials reads provider API keys once. If envFile exists it is
// loaded first; variables already set in the environment win.
func LoadCredentials(envFile string) (providers.Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return providers.Credentials{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	creds := providers.Credentials{
		Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAI:    os.Getenv("OPENAI_API_KEY"),
		Gemini:    os.Getenv("GEMINI_API_KEY"),
	}
	if creds.Gemini == "" {
		creds.Gemini = os.Getenv("GOOGLE_API_KEY")
	}
	return creds, nil
}
