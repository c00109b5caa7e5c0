package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxTimeout      = 3600
	maxBodyBytesCap = 64 << 20
)

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range (0-65535)", c.Port))
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > maxTimeout {
		errs = append(errs, fmt.Errorf("readTimeout %d is out of range (0-%d)", c.ReadTimeout, maxTimeout))
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > maxTimeout {
		errs = append(errs, fmt.Errorf("writeTimeout %d is out of range (0-%d)", c.WriteTimeout, maxTimeout))
	}
	if c.MaxBodyBytes <= 0 || c.MaxBodyBytes > maxBodyBytesCap {
		errs = append(errs, fmt.Errorf("maxBodyBytes %d is out of range (1-%d)", c.MaxBodyBytes, maxBodyBytesCap))
	}
	if strings.TrimSpace(c.SeedFile) == "" {
		errs = append(errs, errors.New("seedFile must not be empty"))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat))
	}

	return errors.Join(errs...)
}
