package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	UI         UIConfig         `mapstructure:"ui"`
	Editor     EditorConfig     `mapstructure:"editor"`
	Folding    FoldingConfig    `mapstructure:"folding"`
	History    HistoryConfig    `mapstructure:"history"`
}

type ConnectionConfig struct {
	DSN          string `mapstructure:"dsn"`
	QueryTimeout int    `mapstructure:"query_timeout"`
	PoolSize     int    `mapstructure:"pool_size"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type EditorConfig struct {
	TabSize   int  `mapstructure:"tab_size"`
	UseSpaces bool `mapstructure:"use_spaces"`
}

type FoldingConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	ShowPreview bool `mapstructure:"show_preview"`
}

type HistoryConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	MaxEntries        int  `mapstructure:"max_entries"`
	SaveFailedQueries bool `mapstructure:"save_failed_queries"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Connection: ConnectionConfig{
			QueryTimeout: 30000,
			PoolSize:     5,
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
		Editor: EditorConfig{
			TabSize:   2,
			UseSpaces: true,
		},
		Folding: FoldingConfig{
			Enabled:     true,
			ShowPreview: true,
		},
		History: HistoryConfig{
			Enabled:           true,
			MaxEntries:        1000,
			SaveFailedQueries: true,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config paths in priority order: user config dir, then cwd
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "sqlfold"))
	}
	v.AddConfigPath(".")

	v.SetDefault("connection.dsn", "")
	v.SetDefault("connection.query_timeout", 30000)
	v.SetDefault("connection.pool_size", 5)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("editor.tab_size", 2)
	v.SetDefault("editor.use_spaces", true)
	v.SetDefault("folding.enabled", true)
	v.SetDefault("folding.show_preview", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("history.save_failed_queries", true)

	// a missing config file is fine, defaults apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "sqlfold"), nil
}
