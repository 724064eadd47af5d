package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Settings are the user-tunable values.
type Settings struct {
	Backend             string        `mapstructure:"backend" yaml:"backend"`
	APIURL              string        `mapstructure:"api_url" yaml:"api_url"`
	PageSize            int           `mapstructure:"page_size" yaml:"page_size"`
	Timeout             time.Duration `mapstructure:"timeout" yaml:"timeout"`
	GoogleList          string        `mapstructure:"google_list" yaml:"google_list"`
	FreshDuplicateCheck bool          `mapstructure:"fresh_duplicate_check" yaml:"fresh_duplicate_check"`
	ServeAddr           string        `mapstructure:"serve_addr" yaml:"serve_addr"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendREST,
		APIURL:     "http://localhost:3000",
		PageSize:   10,
		Timeout:    5 * time.Second,
		GoogleList: "@default",
		ServeAddr:  "localhost:3000",
	}
}

// Validate checks settings that would otherwise fail later and less clearly.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendREST, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s.Backend, BackendREST, BackendGoogle)
	}
	if s.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", s.PageSize)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	return nil
}

// loadSettings merges defaults, the settings file at path (if it exists)
// and TASKDESK_* environment variables, in increasing priority.
func loadSettings(path string) (Settings, error) {
	defaults := DefaultSettings()

	v := viper.New()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("page_size", defaults.PageSize)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("google_list", defaults.GoogleList)
	v.SetDefault("fresh_duplicate_check", defaults.FreshDuplicateCheck)
	v.SetDefault("serve_addr", defaults.ServeAddr)

	v.SetEnvPrefix("TASKDESK")
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("stat %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
