package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ApplicationConfiguration config specific to the application: logging and
// monitoring.
type ApplicationConfiguration struct {
	// LogLevel is one of zap levels: debug, info, warn, error.
	LogLevel string `yaml:"LogLevel"`
	// LogPath is the file to write logs to, stdout is used if empty.
	LogPath    string       `yaml:"LogPath"`
	Prometheus BasicService `yaml:"Prometheus"`
	Pprof      BasicService `yaml:"Pprof"`
}

// Validate checks ApplicationConfiguration for internal consistency.
func (a ApplicationConfiguration) Validate() error {
	if a.LogLevel != "" {
		if _, err := zapcore.ParseLevel(a.LogLevel); err != nil {
			return fmt.Errorf("invalid LogLevel: %w", err)
		}
	}
	if a.Prometheus.Enabled && len(a.Prometheus.Addresses) == 0 {
		return fmt.Errorf("no addresses for enabled Prometheus service")
	}
	if a.Pprof.Enabled && len(a.Pprof.Addresses) == 0 {
		return fmt.Errorf("no addresses for enabled Pprof service")
	}
	return nil
}
