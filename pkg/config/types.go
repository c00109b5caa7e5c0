// Package config provides configuration types and loading for the seedapi
// server.
package config

// Config is the complete server configuration.
// Values can come from several sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.seedapirc.yaml in the current directory)
// 4. Default values (lowest priority)
type Config struct {
	// Server settings
	Port         int    `yaml:"port" json:"port"`
	Host         string `yaml:"host" json:"host"`
	ReadTimeout  int    `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout" json:"writeTimeout"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes" json:"maxBodyBytes"`

	// CORSOrigins lists the allowed origins; "*" allows all.
	CORSOrigins []string `yaml:"corsOrigins,omitempty" json:"corsOrigins,omitempty"`

	// SeedFile is the JSON or YAML document loaded at startup and on reset.
	SeedFile string `yaml:"seedFile" json:"seedFile"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`
}

// Sources of a config value.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)
