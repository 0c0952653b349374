// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// minJWTSecretLen is the shortest HS256 secret accepted.
const minJWTSecretLen = 32

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Server.EventRetention < 0 {
		errs = append(errs, "server.event_retention: must not be negative")
	}

	// Auth validation
	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth.jwt_secret: required")
	} else if len(c.Auth.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Sprintf("auth.jwt_secret: must be at least %d characters", minJWTSecretLen))
	}
	if c.Auth.SessionTTL < 0 {
		errs = append(errs, "auth.session_ttl: must not be negative")
	}
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31) {
		errs = append(errs, fmt.Sprintf("auth.bcrypt_cost: must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}

	// Plex validation
	if c.Plex != nil {
		if c.Plex.URL == "" {
			errs = append(errs, "plex.url: required when plex is configured")
		} else if u, err := url.Parse(c.Plex.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("plex.url: must be an http(s) URL, got %q", c.Plex.URL))
		}
		if c.Plex.Token == "" {
			errs = append(errs, "plex.token: required when plex is configured")
		}
		if c.Plex.RequestTimeout < 0 {
			errs = append(errs, "plex.request_timeout: must not be negative")
		}
		if c.Plex.SyncTimeout < 0 {
			errs = append(errs, "plex.sync_timeout: must not be negative")
		}
		if c.Plex.DetailConcurrency < 0 {
			errs = append(errs, fmt.Sprintf("plex.detail_concurrency: must not be negative, got %d", c.Plex.DetailConcurrency))
		}
		for _, lang := range c.Plex.Languages {
			if len(lang) != 3 {
				errs = append(errs, fmt.Sprintf("plex.languages: %q is not a three-letter language code", lang))
			}
		}
	}

	return errs
}
