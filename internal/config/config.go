// Package config loads the gateway configuration from a YAML file, with
// defaults suitable for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Services ServicesConfig `yaml:"services"`
	Bancho   BanchoConfig   `yaml:"bancho"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

// ServicesConfig points the gateway at its backend constellation.
type ServicesConfig struct {
	UsersBaseURL       string `yaml:"users_base_url"`
	ChatsBaseURL       string `yaml:"chats_base_url"`
	BeatmapsBaseURL    string `yaml:"beatmaps_base_url"`
	ScoresBaseURL      string `yaml:"scores_base_url"`
	CallTimeoutSeconds int    `yaml:"call_timeout_seconds"`
}

// CallTimeout is the conservative per-backend-call deadline.
func (c ServicesConfig) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// BanchoConfig carries the protocol-facing knobs: the login welcome text,
// the optional main menu icon pair, and the default geolocation used until
// a real geo lookup exists.
type BanchoConfig struct {
	WelcomeMessage     string  `yaml:"welcome_message"`
	MainMenuIconURL    string  `yaml:"main_menu_icon_url"`
	MainMenuOnClickURL string  `yaml:"main_menu_onclick_url"`
	CountryCode        uint8   `yaml:"country_code"`
	Latitude           float32 `yaml:"latitude"`
	Longitude          float32 `yaml:"longitude"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":80",
			Env:      "local",
			LogLevel: "info",
		},
		Services: ServicesConfig{
			UsersBaseURL:       "http://users-service",
			ChatsBaseURL:       "http://chat-service",
			BeatmapsBaseURL:    "http://beatmaps-service",
			ScoresBaseURL:      "http://scores-service",
			CallTimeoutSeconds: 5,
		},
		Bancho: BanchoConfig{
			WelcomeMessage: "Welcome to bancho!",
			CountryCode:    38,
			Latitude:       48.23,
			Longitude:      16.37,
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Services.CallTimeoutSeconds <= 0 {
		cfg.Services.CallTimeoutSeconds = 5
	}

	return cfg, nil
}
