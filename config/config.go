package config

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"coinwatch/services/coingecko"
)

// Settings holds the server configuration loaded from the YAML file.
type Settings struct {
	Server   ServerSettings   `yaml:"server"`
	Database DatabaseSettings `yaml:"database"`
	Market   MarketSettings   `yaml:"market"`
	Log      LogSettings      `yaml:"log"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// DatabaseSettings configures the sqlite medium behind the watchlist store.
type DatabaseSettings struct {
	Path string `yaml:"path"`
}

// MarketSettings configures the market-data provider client.
type MarketSettings struct {
	BaseURL    string `yaml:"baseUrl"`
	VsCurrency string `yaml:"vsCurrency"`
}

// LogSettings configures the rotated server log.
type LogSettings struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Manager reads settings from a YAML file. A missing file yields defaults;
// an unreadable or invalid file is an error.
type Manager struct {
	fs   afero.Fs
	path string

	mu sync.Mutex
}

// NewManager creates a manager over the OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs creates a manager over the given filesystem. Tests use an
// in-memory fs.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

// Defaults returns the settings used when no config file exists.
func Defaults() *Settings {
	return &Settings{
		Server:   ServerSettings{Addr: ":8085"},
		Database: DatabaseSettings{Path: "data/coinwatch.db"},
		Market: MarketSettings{
			BaseURL:    coingecko.DefaultBaseURL,
			VsCurrency: "usd",
		},
		Log: LogSettings{
			File:       "logs/coinwatch.log",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads the settings file, filling unset fields with defaults.
func (m *Manager) Load() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings := Defaults()

	exists, err := afero.Exists(m.fs, m.path)
	if err != nil {
		return nil, fmt.Errorf("stat config %s: %w", m.path, err)
	}
	if !exists {
		return settings, nil
	}

	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", m.path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", m.path, err)
	}

	applyDefaults(settings)
	return settings, nil
}

func applyDefaults(settings *Settings) {
	defaults := Defaults()
	if settings.Server.Addr == "" {
		settings.Server.Addr = defaults.Server.Addr
	}
	if settings.Database.Path == "" {
		settings.Database.Path = defaults.Database.Path
	}
	if settings.Market.BaseURL == "" {
		settings.Market.BaseURL = defaults.Market.BaseURL
	}
	if settings.Market.VsCurrency == "" {
		settings.Market.VsCurrency = defaults.Market.VsCurrency
	}
	if settings.Log.File == "" {
		settings.Log.File = defaults.Log.File
	}
	if settings.Log.MaxSizeMB <= 0 {
		settings.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if settings.Log.MaxBackups <= 0 {
		settings.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if settings.Log.MaxAgeDays <= 0 {
		settings.Log.MaxAgeDays = defaults.Log.MaxAgeDays
	}
}
