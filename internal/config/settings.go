package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
	"github.com/zalando/go-keyring"
)

// Settings holds the runtime configuration of the service.
// Environment variables are parsed from the LIFESTORY_ prefix.
type Settings struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Language string `envconfig:"LANGUAGE" default:"en"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// Backend selects where content documents are read from: file, http, postgres, sqlite or redis.
	Backend string `envconfig:"CONTENT_BACKEND" default:"file"`

	ContentDir      string `envconfig:"CONTENT_DIR" default:"content"`
	ContentURL      string `envconfig:"CONTENT_URL" default:""`
	ContentUser     string `envconfig:"CONTENT_USER" default:""`
	ContentPassword string `envconfig:"CONTENT_PASSWORD" default:""`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"lifestory.db"`
	RedisURL    string `envconfig:"REDIS_URL" default:""`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettings, err)
	}
	return s, nil
}

// Validate checks that the selected backend has what it needs.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendFile:
		if s.ContentDir == "" {
			return fmt.Errorf("%s: %s requires CONTENT_DIR", ErrBackend, s.Backend)
		}
	case BackendHTTP:
		if s.ContentURL == "" {
			return fmt.Errorf("%s: %s requires CONTENT_URL", ErrBackend, s.Backend)
		}
	case BackendPostgres:
		if s.DatabaseURL == "" {
			return fmt.Errorf("%s: %s requires DATABASE_URL", ErrBackend, s.Backend)
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("%s: %s requires SQLITE_PATH", ErrBackend, s.Backend)
		}
	case BackendRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("%s: %s requires REDIS_URL", ErrBackend, s.Backend)
		}
	default:
		return fmt.Errorf("%s: %q", ErrBackend, s.Backend)
	}
	return nil
}

// ResolveContentPassword returns the configured password, falling back to the
// OS keyring when only a user name is set.
func (s Settings) ResolveContentPassword() string {
	if s.ContentPassword != "" || s.ContentUser == "" {
		return s.ContentPassword
	}

	pass, err := keyring.Get(KeyringService, s.ContentUser)
	if err != nil {
		slog.Debug(ErrKeyring,
			LogKeyComponent, CompConfig,
			LogKeyUser, s.ContentUser,
			LogKeyError, err,
		)
		return ""
	}

	slog.Debug(MsgPassFromKeyring, LogKeyComponent, CompConfig, LogKeyUser, s.ContentUser)
	return pass
}
