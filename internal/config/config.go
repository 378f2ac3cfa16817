package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/spf13/viper"
)

// Credential store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 30 * time.Second
)

// Config holds everything needed to build a client.
type Config struct {
	BaseURL           string
	CredentialBackend string
	CredentialPath    string
	Timeout           time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("credentials.backend", BackendFile)
	v.SetDefault("credentials.path", "")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

// Load reads the client configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		BaseURL:           strings.TrimRight(v.GetString("api.base_url"), "/"),
		Timeout:           v.GetDuration("api.timeout"),
		CredentialBackend: strings.ToLower(v.GetString("credentials.backend")),
		CredentialPath:    ExpandPath(v.GetString("credentials.path")),
	}

	if cfg.CredentialPath == "" {
		switch cfg.CredentialBackend {
		case BackendSQLite:
			cfg.CredentialPath = filepath.Join(DataDir(), "gastos.db")
		default:
			cfg.CredentialPath = filepath.Join(DataDir(), "session.json")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	if c.BaseURL == "" {
		problems = append(problems, "api.base_url cannot be empty")
	} else if u, err := url.Parse(c.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid api.base_url '%s': %v", c.BaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid api.base_url scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid api.timeout %s: must be positive", c.Timeout))
	}

	switch c.CredentialBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid credentials.backend '%s': must be one of file, sqlite, memory", c.CredentialBackend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
