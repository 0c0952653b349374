// internal/config/error.go
package config

import (
	"strings"
)

// ConfigError lists every problem found in one config file.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references, "NAME" or "NAME: message"
	Errors  []string // Validate output, "key: problem"
}

func (e *ConfigError) Error() string {
	if len(e.Missing) == 0 && len(e.Errors) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("invalid config")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if len(e.Missing) > 0 {
		b.WriteString("\nmissing environment variables:")
		writeItems(&b, e.Missing)
	}
	if len(e.Errors) > 0 {
		b.WriteString("\nvalidation failed:")
		writeItems(&b, e.Errors)
	}
	return b.String()
}

func writeItems(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("\n  - ")
		b.WriteString(item)
	}
}
