// Package config resolves settings from a .env file, the environment and
// command line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

// Config is the resolved CLI and server configuration.
type Config struct {
	APIURL       string
	APIPrefix    string
	DocumentType string
	DraftID      string
	ProjectID    string
	Timeout      time.Duration
	Addr         string
	LogLevel     string
	LogFormat    string
	SeedPath     string
}

const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
	defaultAddr    = ":8080"
)

// Load reads .env files (missing files are ignored), then the environment,
// then binds fs and parses args.
func Load(fs *flag.FlagSet, args []string, envFiles ...string) (*Config, error) {
	if err := loadDotenv(envFiles...); err != nil {
		return nil, err
	}
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		_ = godotenv.Load()
		return nil
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:       firstNonEmpty(env("FORMSTRUCT_API_URL"), defaultAPIURL),
		APIPrefix:    firstNonEmpty(env("FORMSTRUCT_API_PREFIX"), transport.DefaultPrefix),
		DocumentType: env("FORMSTRUCT_DOCUMENT_TYPE"),
		DraftID:      env("FORMSTRUCT_DRAFT_ID"),
		ProjectID:    env("FORMSTRUCT_PROJECT_ID"),
		Timeout:      defaultTimeout,
		Addr:         resolveAddr(env("PORT")),
		LogLevel:     firstNonEmpty(env("LOG_LEVEL"), "info"),
		LogFormat:    firstNonEmpty(env("LOG_FORMAT"), "text"),
		SeedPath:     env("FORMSTRUCT_SEED"),
	}
	if raw := env("FORMSTRUCT_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: FORMSTRUCT_TIMEOUT: %w", err)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}

// Bind registers flags on fs defaulting to the current values.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.APIURL, "api", c.APIURL, "form structure API base URL")
	fs.StringVar(&c.APIPrefix, "prefix", c.APIPrefix, "API path prefix")
	fs.StringVar(&c.DocumentType, "document-type", c.DocumentType, "document type filter (pre-appointment, post-appointment)")
	fs.StringVar(&c.DraftID, "draft", c.DraftID, "draft id to scope the structure to")
	fs.StringVar(&c.ProjectID, "project", c.ProjectID, "project id to scope the structure to (deprecated)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "request timeout")
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address for serve")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json)")
	fs.StringVar(&c.SeedPath, "seed", c.SeedPath, "YAML seed template for serve")
}

// Validate checks values that flags cannot constrain.
func (c *Config) Validate() error {
	switch c.DocumentType {
	case "", structure.DocumentPreAppointment, structure.DocumentPostAppointment:
	default:
		return fmt.Errorf("config: unknown document type %q", c.DocumentType)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative")
	}
	return nil
}

// Scope selects the structure scope: draft first, then project, otherwise
// the template.
func (c *Config) Scope() structure.Scope {
	return structure.SelectScope(c.DraftID, c.ProjectID, c.DocumentType)
}

func resolveAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return defaultAddr
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
