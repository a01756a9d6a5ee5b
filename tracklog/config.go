package tracklog

// Config holds the settings needed to build a Logger. Unlike the wider
// ecosystem config layer (trackcfg), this struct is deliberately small:
// one console sink plus an optional rotating file sink.
type Config struct {
	DefaultLevel string         `yaml:"defaultLevel"`
	Service      string         `yaml:"service"`
	Environment  string         `yaml:"environment"`
	StaticFields map[string]any `yaml:"staticFields,omitempty"`
	File         *FileSink      `yaml:"file,omitempty"`
	EnableCaller bool           `yaml:"enableCaller"`
}

// FileSink configures a rotating log file via lumberjack.
type FileSink struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig returns a console-only, INFO-level configuration suitable
// for the CLI entry point.
func DefaultConfig(service string) *Config {
	return &Config{
		DefaultLevel: "INFO",
		Service:      service,
		Environment:  "development",
		StaticFields: make(map[string]any),
	}
}
