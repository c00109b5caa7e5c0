package config

// MergeConfig merges source config into target, updating sources tracking.
// A field is applied when source.Sources records it; a programmatic source
// without Sources contributes its non-zero values.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	set := func(key string, nonZero bool) bool {
		if source.Sources != nil {
			_, ok := source.Sources[key]
			if !ok {
				return false
			}
		} else if !nonZero {
			return false
		}
		target.Sources[key] = sourceType
		return true
	}

	if set("port", source.Port != 0) {
		target.Port = source.Port
	}
	if set("host", source.Host != "") {
		target.Host = source.Host
	}
	if set("readTimeout", source.ReadTimeout != 0) {
		target.ReadTimeout = source.ReadTimeout
	}
	if set("writeTimeout", source.WriteTimeout != 0) {
		target.WriteTimeout = source.WriteTimeout
	}
	if set("maxBodyBytes", source.MaxBodyBytes != 0) {
		target.MaxBodyBytes = source.MaxBodyBytes
	}
	if set("corsOrigins", len(source.CORSOrigins) > 0) {
		target.CORSOrigins = append([]string(nil), source.CORSOrigins...)
	}
	if set("seedFile", source.SeedFile != "") {
		target.SeedFile = source.SeedFile
	}
	if set("logLevel", source.LogLevel != "") {
		target.LogLevel = source.LogLevel
	}
	if set("logFormat", source.LogFormat != "") {
		target.LogFormat = source.LogFormat
	}
	if set("logFile", source.LogFile != "") {
		target.LogFile = source.LogFile
	}
}
