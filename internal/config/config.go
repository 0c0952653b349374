// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Plex     *PlexConfig    `toml:"plex"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"` // optional, rotated file output in addition to stdout

	// EventRetention bounds how long sync events are kept; zero keeps them forever.
	EventRetention time.Duration `toml:"event_retention"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret    string        `toml:"jwt_secret"`
	SessionTTL   time.Duration `toml:"session_ttl"`
	CookieName   string        `toml:"cookie_name"`
	SecureCookie bool          `toml:"secure_cookie"`
	BcryptCost   int           `toml:"bcrypt_cost"`
}

// PlexConfig configures the media server used for library sync.
// A nil PlexConfig means sync endpoints are disabled.
type PlexConfig struct {
	URL               string        `toml:"url"`
	Token             string        `toml:"token"`
	ClientIdentifier  string        `toml:"client_identifier"`
	Languages         []string      `toml:"languages"` // audio stream language codes to keep
	RequestTimeout    time.Duration `toml:"request_timeout"`
	SyncTimeout       time.Duration `toml:"sync_timeout"`
	DetailConcurrency int           `toml:"detail_concurrency"`
	MovieSection      string        `toml:"movie_section"` // section key, empty = first movie section
}

// Load reads, parses, and validates the configuration file.
// Returns a *ConfigError when environment variables are unresolved or validation fails.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}

	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies defaults
// without running Validate.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/controlroom.db"
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 24 * time.Hour
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "token"
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Plex != nil {
		if c.Plex.ClientIdentifier == "" {
			c.Plex.ClientIdentifier = "controlroom"
		}
		if len(c.Plex.Languages) == 0 {
			c.Plex.Languages = []string{"eng", "ita"}
		}
		if c.Plex.RequestTimeout == 0 {
			c.Plex.RequestTimeout = 10 * time.Second
		}
		if c.Plex.SyncTimeout == 0 {
			c.Plex.SyncTimeout = 5 * time.Minute
		}
		if c.Plex.DetailConcurrency == 0 {
			c.Plex.DetailConcurrency = 8
		}
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment variable references in content.
// Comment lines are left alone. Unresolved references are left in place and
// reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			parts := envVarPattern.FindStringSubmatch(match)
			name, op, arg := parts[1], parts[2], parts[3]
			value, ok := os.LookupEnv(name)

			switch op {
			case ":-":
				if !ok || value == "" {
					return arg
				}
				return value
			case ":?":
				if !ok || value == "" {
					missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
					return match
				}
				return value
			default:
				if !ok {
					missing = append(missing, name)
					return match
				}
				return value
			}
		})
	}
	return strings.Join(lines, ""), missing
}
