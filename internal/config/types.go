// Package config handles configuration loading and defaults.
package config

// Default values.
const (
	DefaultChaosDir   = "."
	DefaultSchemaDir  = "schemas"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultMaxDepth   = 0 // unlimited
	DefaultWorkers    = 4
	DefaultConfigName = "chaos.toml"
)

// Config holds the full configuration for chaos.
type Config struct {
	// Paths
	ChaosDir  string `toml:"chaos_dir"`
	SchemaDir string `toml:"schema_dir"`

	// Rendering
	ShowDisabled bool `toml:"show_disabled"`
	ShowLabels   bool `toml:"show_labels"`
	MaxDepth     int  `toml:"max_depth"`

	// Validation
	Workers int `toml:"workers"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// setDefaults fills in default values.
func setDefaults(cfg *Config) {
	cfg.ChaosDir = DefaultChaosDir
	cfg.SchemaDir = DefaultSchemaDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.MaxDepth = DefaultMaxDepth
	cfg.Workers = DefaultWorkers
}
