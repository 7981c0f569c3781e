package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SKILLBOX"

// envKeys are the settings that may be overridden from the environment,
// e.g. SKILLBOX_SKILLS_WEATHERKEY.
var envKeys = []string{
	"logLevel",
	"dataDir",
	"skills.weatherKey",
	"skills.defaultCity",
	"channels.telegram.token",
	"channels.slack.botToken",
	"channels.slack.appToken",
	"channels.onebot.wsUrl",
	"channels.onebot.accessToken",
}

// ConfigPath returns the default configuration file path: ~/.skillbox/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the default skillbox data directory: ~/.skillbox.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillbox"
	}
	return filepath.Join(home, ".skillbox")
}

// Load reads the config file at path over DefaultConfig(), then applies
// SKILLBOX_* environment overrides. If path is empty, ConfigPath() is used.
// A missing file yields the defaults; a malformed one is logged and ignored.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := newViper()

	switch _, err := os.Stat(path); {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("Failed to parse config, using defaults", "path", path, "err", err)
			v = newViper()
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Warn("Failed to decode config, using defaults", "path", path, "err", err)
		def := DefaultConfig()
		return &def, nil
	}
	return &cfg, nil
}

// newViper returns an instance with the environment bindings installed.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
