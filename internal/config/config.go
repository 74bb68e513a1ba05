package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Reader   ReaderConfig   `mapstructure:"reader"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
	Feeds    []FeedEntry    `mapstructure:"feeds"`

	// File is the config file that was read, empty when running on
	// defaults alone.
	File string `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeedConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	// FetchInterval is the minimum gap between two outgoing fetches.
	FetchInterval time.Duration `mapstructure:"fetch_interval"`
	// CacheTTL serves cached items without a network round trip while
	// they are younger than this. Zero always revalidates.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ReaderConfig struct {
	WPM             int           `mapstructure:"wpm"`
	IntroDelay      time.Duration `mapstructure:"intro_delay"`
	PageNumberPause time.Duration `mapstructure:"page_number_pause"`
	EndClose        time.Duration `mapstructure:"end_close"`
	RetryTimeout    time.Duration `mapstructure:"retry_timeout"`
	RetryBudget     int           `mapstructure:"retry_budget"`
	PacingDelay     time.Duration `mapstructure:"pacing_delay"`
	Backlight       bool          `mapstructure:"backlight"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Pivot  string `mapstructure:"pivot"`
	Text   string `mapstructure:"text"`
	Focal  string `mapstructure:"focal"`
	Header string `mapstructure:"header"`
	Muted  string `mapstructure:"muted"`
	Dim    string `mapstructure:"dim"`
}

// KeyConfig binds keys to the reader's four buttons. Each binding is a
// comma separated list of key names.
type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Select string `mapstructure:"select"`
	Up     string `mapstructure:"up"`
	Down   string `mapstructure:"down"`
	Back   string `mapstructure:"back"`
	Quit   string `mapstructure:"quit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// FeedEntry is one feed listed in the config file.
type FeedEntry struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".skim.db"),
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			HTTPTimeout:   30 * time.Second,
			UserAgent:     "skim/1.0 (https://github.com/pders01/skim)",
			FetchInterval: 750 * time.Millisecond,
			CacheTTL:      5 * time.Minute,
		},
		Reader: ReaderConfig{
			WPM:             400,
			IntroDelay:      2 * time.Second,
			PageNumberPause: 1 * time.Second,
			EndClose:        3 * time.Second,
			RetryTimeout:    8 * time.Second,
			RetryBudget:     3,
			PacingDelay:     100 * time.Millisecond,
			Backlight:       true,
		},
		UI: UIConfig{
			Colors: UIColors{
				Pivot:  "#FF6B6B",
				Text:   "#EAEAEA",
				Focal:  "#4ECDC4",
				Header: "#95E1D3",
				Muted:  "#94A3B8",
				Dim:    "#5C6370",
			},
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Select: "enter,space",
				Up:     "up,k",
				Down:   "down,j",
				Back:   "esc,backspace,h",
				Quit:   "q,ctrl+c",
			},
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(homeDir, ".skim", "skim.log"),
		},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "skim", "config.toml")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SKIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every leaf so a file that sets one key of a
// section keeps the defaults of its siblings.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	v.SetDefault("feed.http_timeout", cfg.Feed.HTTPTimeout)
	v.SetDefault("feed.user_agent", cfg.Feed.UserAgent)
	v.SetDefault("feed.fetch_interval", cfg.Feed.FetchInterval)
	v.SetDefault("feed.cache_ttl", cfg.Feed.CacheTTL)

	v.SetDefault("reader.wpm", cfg.Reader.WPM)
	v.SetDefault("reader.intro_delay", cfg.Reader.IntroDelay)
	v.SetDefault("reader.page_number_pause", cfg.Reader.PageNumberPause)
	v.SetDefault("reader.end_close", cfg.Reader.EndClose)
	v.SetDefault("reader.retry_timeout", cfg.Reader.RetryTimeout)
	v.SetDefault("reader.retry_budget", cfg.Reader.RetryBudget)
	v.SetDefault("reader.pacing_delay", cfg.Reader.PacingDelay)
	v.SetDefault("reader.backlight", cfg.Reader.Backlight)

	v.SetDefault("ui.colors.pivot", cfg.UI.Colors.Pivot)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.focal", cfg.UI.Colors.Focal)
	v.SetDefault("ui.colors.header", cfg.UI.Colors.Header)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.dim", cfg.UI.Colors.Dim)

	v.SetDefault("keys.bindings.select", cfg.Keys.Bindings.Select)
	v.SetDefault("keys.bindings.up", cfg.Keys.Bindings.Up)
	v.SetDefault("keys.bindings.down", cfg.Keys.Bindings.Down)
	v.SetDefault("keys.bindings.back", cfg.Keys.Bindings.Back)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
}

func Load(configPath string) (*Config, error) {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	expandPaths(&config)
	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability.
	v.Set("database", map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	})
	v.Set("feed", map[string]interface{}{
		"http_timeout":   config.Feed.HTTPTimeout.String(),
		"user_agent":     config.Feed.UserAgent,
		"fetch_interval": config.Feed.FetchInterval.String(),
		"cache_ttl":      config.Feed.CacheTTL.String(),
	})
	v.Set("reader", map[string]interface{}{
		"wpm":               config.Reader.WPM,
		"intro_delay":       config.Reader.IntroDelay.String(),
		"page_number_pause": config.Reader.PageNumberPause.String(),
		"end_close":         config.Reader.EndClose.String(),
		"retry_timeout":     config.Reader.RetryTimeout.String(),
		"retry_budget":      config.Reader.RetryBudget,
		"pacing_delay":      config.Reader.PacingDelay.String(),
		"backlight":         config.Reader.Backlight,
	})
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"pivot":  config.UI.Colors.Pivot,
			"text":   config.UI.Colors.Text,
			"focal":  config.UI.Colors.Focal,
			"header": config.UI.Colors.Header,
			"muted":  config.UI.Colors.Muted,
			"dim":    config.UI.Colors.Dim,
		},
	})
	v.Set("keys", map[string]interface{}{
		"bindings": map[string]interface{}{
			"select": config.Keys.Bindings.Select,
			"up":     config.Keys.Bindings.Up,
			"down":   config.Keys.Bindings.Down,
			"back":   config.Keys.Bindings.Back,
			"quit":   config.Keys.Bindings.Quit,
		},
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"path":  config.Log.Path,
	})

	if len(config.Feeds) > 0 {
		feeds := make([]map[string]interface{}, 0, len(config.Feeds))
		for _, f := range config.Feeds {
			feeds = append(feeds, map[string]interface{}{"name": f.Name, "url": f.URL})
		}
		v.Set("feeds", feeds)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
