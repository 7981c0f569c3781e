// Package config defines the configuration schema for skillbox.
//
// The file is JSON with camelCase keys, read from ~/.skillbox/config.json.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/skillbox/skillbox/internal/config/channel"
)

// MediaConfig restricts where local images referenced by skill replies may
// be read from.
type MediaConfig struct {
	AllowedDirs []string `json:"allowedDirs"`
}

// SkillsConfig holds the settings of the bundled extension skills.
type SkillsConfig struct {
	WeatherKey         string `json:"weatherKey"`
	DefaultCity        string `json:"defaultCity"`
	HTTPTimeoutSeconds int    `json:"httpTimeoutSeconds"`
	Retries            int    `json:"retries"`
	MaxImages          int    `json:"maxImages"`
	SampleImage        string `json:"sampleImage,omitempty"`
}

func defaultSkillsConfig() SkillsConfig {
	return SkillsConfig{
		DefaultCity:        "贵阳",
		HTTPTimeoutSeconds: 10,
		Retries:            3,
		MaxImages:          10,
	}
}

// ScheduleConfig dispatches Message on a cron schedule and delivers the
// reply to Channel/ChatID.
type ScheduleConfig struct {
	Name    string `json:"name"`
	Expr    string `json:"expr"` // 5-field cron, optional CRON_TZ= prefix
	Message string `json:"message"`
	Channel string `json:"channel"`
	ChatID  string `json:"chatId"`
}

// Config is the root configuration object.
type Config struct {
	LogLevel  string                 `json:"logLevel"`
	DataDir   string                 `json:"dataDir"`
	Admins    []string               `json:"admins"` // glob patterns over sender ids
	Media     MediaConfig            `json:"media"`
	Skills    SkillsConfig           `json:"skills"`
	Channels  channel.ChannelsConfig `json:"channels"`
	Schedules []ScheduleConfig       `json:"schedules"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		DataDir:   "~/.skillbox",
		Admins:    []string{},
		Media:     MediaConfig{AllowedDirs: []string{}},
		Skills:    defaultSkillsConfig(),
		Channels:  channel.DefaultChannelsConfig(),
		Schedules: []ScheduleConfig{},
	}
}

// DataPath returns the expanded absolute data directory.
func (c *Config) DataPath() string {
	dir := c.DataDir
	if dir == "" {
		dir = DataDir()
	}
	return expandHome(dir)
}

// FeaturesPath returns the location of the disabled-features file.
func (c *Config) FeaturesPath() string {
	return filepath.Join(c.DataPath(), "config", "disabled_features.yaml")
}

// MediaDirs returns the directories local images may be read from,
// defaulting to <dataDir>/media.
func (c *Config) MediaDirs() []string {
	if len(c.Media.AllowedDirs) == 0 {
		return []string{filepath.Join(c.DataPath(), "media")}
	}
	dirs := make([]string, 0, len(c.Media.AllowedDirs))
	for _, d := range c.Media.AllowedDirs {
		dirs = append(dirs, expandHome(d))
	}
	return dirs
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}
