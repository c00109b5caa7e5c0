package config

import (
	"net"
	"strconv"
)

// DefaultPort is the default HTTP port.
const DefaultPort = 3000

// DefaultHost is the default bind address; empty binds every interface.
const DefaultHost = ""

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds.
const DefaultWriteTimeout = 30

// DefaultMaxBodyBytes is the default request body limit.
const DefaultMaxBodyBytes int64 = 100 << 10

// DefaultSeedFile is the seed document looked up in the working directory.
const DefaultSeedFile = "seed.json"

// DefaultLogLevel and DefaultLogFormat configure the process logger.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		Port:         DefaultPort,
		Host:         DefaultHost,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
		CORSOrigins:  []string{"*"},
		SeedFile:     DefaultSeedFile,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Sources:      make(map[string]string),
	}

	for _, key := range []string{
		"port", "host", "readTimeout", "writeTimeout", "maxBodyBytes",
		"corsOrigins", "seedFile", "logLevel", "logFormat",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
