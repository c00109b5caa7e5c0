package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvConfig       = "SEEDAPI_CONFIG"
	EnvPort         = "SEEDAPI_PORT"
	EnvHost         = "SEEDAPI_HOST"
	EnvReadTimeout  = "SEEDAPI_READ_TIMEOUT"
	EnvWriteTimeout = "SEEDAPI_WRITE_TIMEOUT"
	EnvMaxBodyBytes = "SEEDAPI_MAX_BODY_BYTES"
	EnvCORSOrigins  = "SEEDAPI_CORS_ORIGINS"
	EnvSeedFile     = "SEEDAPI_SEED_FILE"
	EnvLogLevel     = "SEEDAPI_LOG_LEVEL"
	EnvLogFormat    = "SEEDAPI_LOG_FORMAT"
	EnvLogFile      = "SEEDAPI_LOG_FILE"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment. A numeric
// variable that does not parse is an error.
func LoadEnvConfig(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	ints := []struct {
		env, key string
		dst      *int
	}{
		{EnvPort, "port", &cfg.Port},
		{EnvReadTimeout, "readTimeout", &cfg.ReadTimeout},
		{EnvWriteTimeout, "writeTimeout", &cfg.WriteTimeout},
	}
	for _, f := range ints {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", f.env, v)
		}
		*f.dst = n
		cfg.Sources[f.key] = SourceEnv
	}

	if v := os.Getenv(EnvMaxBodyBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", EnvMaxBodyBytes, v)
		}
		cfg.MaxBodyBytes = n
		cfg.Sources["maxBodyBytes"] = SourceEnv
	}

	strs := []struct {
		env, key string
		dst      *string
	}{
		{EnvHost, "host", &cfg.Host},
		{EnvSeedFile, "seedFile", &cfg.SeedFile},
		{EnvLogLevel, "logLevel", &cfg.LogLevel},
		{EnvLogFormat, "logFormat", &cfg.LogFormat},
		{EnvLogFile, "logFile", &cfg.LogFile},
	}
	for _, f := range strs {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
			cfg.Sources[f.key] = SourceEnv
		}
	}

	if v := os.Getenv(EnvCORSOrigins); v != "" {
		cfg.CORSOrigins = SplitList(v)
		cfg.Sources["corsOrigins"] = SourceEnv
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
