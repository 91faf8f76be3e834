package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds the persistent defaults read from exifrename.toml and the
// EXIFRENAME_* environment. Command-line flags override it per run.
type Config struct {
	ImagePrefix    string        `mapstructure:"image_prefix" toml:"image_prefix"`
	VideoPrefix    string        `mapstructure:"video_prefix" toml:"video_prefix"`
	TimeFormat     string        `mapstructure:"time_format" toml:"time_format"`
	SourceTimezone string        `mapstructure:"source_timezone" toml:"source_timezone"`
	ImageExt       []string      `mapstructure:"image_extensions" toml:"image_extensions"`
	VideoExt       []string      `mapstructure:"video_extensions" toml:"video_extensions"`
	UseExifTool    bool          `mapstructure:"use_exiftool" toml:"use_exiftool"`
	LogLevel       string        `mapstructure:"log_level" toml:"log_level"`
	JournalDir     string        `mapstructure:"journal_dir" toml:"journal_dir"`
	WatchSettle    time.Duration `mapstructure:"watch_settle" toml:"-"`
}

// DefaultConfigPath is where LoadConfig looks when no file is given.
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find user config dir: %w", err)
	}
	return filepath.Join(configDir, "exifrename", "exifrename.toml"), nil
}

// LoadConfig reads configPath, or the default location when empty. A
// missing default file is fine; a missing explicit file is an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		configDir, err := os.UserConfigDir()
		if err == nil {
			v.SetConfigName("exifrename")
			v.AddConfigPath(filepath.Join(configDir, "exifrename"))
		}
	}

	v.SetEnvPrefix("EXIFRENAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults:
	v.SetDefault("image_prefix", DefaultImagePrefix)
	v.SetDefault("video_prefix", DefaultVideoPrefix)
	v.SetDefault("time_format", DefaultTimeFormat)
	v.SetDefault("source_timezone", "Local")
	v.SetDefault("image_extensions", []string{".jpg", ".jpeg", ".png", ".heic", ".heif", ".tif", ".tiff"})
	v.SetDefault("video_extensions", []string{".mp4", ".mov", ".m4v", ".3gp"})
	v.SetDefault("use_exiftool", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("journal_dir", "")
	v.SetDefault("watch_settle", "2s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ImageExt = normalizeExtensions(cfg.ImageExt)
	cfg.VideoExt = normalizeExtensions(cfg.VideoExt)
	if cfg.WatchSettle <= 0 {
		cfg.WatchSettle = 2 * time.Second
	}

	return &cfg, nil
}

// fileConfig is Config as written in exifrename.toml.
type fileConfig struct {
	Config
	WatchSettle string `toml:"watch_settle"`
}

// MarshalTOML renders c in the config file format.
func (c *Config) MarshalTOML() ([]byte, error) {
	return toml.Marshal(fileConfig{Config: *c, WatchSettle: c.WatchSettle.String()})
}

// Classifier returns the extension classifier of cfg.
func (c *Config) Classifier() Classifier {
	return Classifier{ImageExt: c.ImageExt, VideoExt: c.VideoExt}
}

// NamingOptions seeds the naming options with the configured defaults.
func (c *Config) NamingOptions() NamingOptions {
	return NamingOptions{
		ImagePrefix:    c.ImagePrefix,
		VideoPrefix:    c.VideoPrefix,
		TimeFormat:     c.TimeFormat,
		SourceTimezone: c.SourceTimezone,
	}
}

// JournalPath returns a fresh journal file name under JournalDir, or ""
// when journaling is not configured.
func (c *Config) JournalPath(now time.Time) string {
	if c.JournalDir == "" {
		return ""
	}
	return filepath.Join(c.JournalDir, "exifrename-"+now.Format("2006-01-02-150405")+".jsonl")
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
