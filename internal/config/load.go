package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.config/chaos/chaos.toml)
// 3. Project config file (chaos.toml or .chaos.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
	}

	if projFile := findProjectConfigFile(); projFile != "" {
		if err := loadConfigFile(cfg, projFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// parseFlags registers the global flags on fs and parses args into cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.ChaosDir, "dir", cfg.ChaosDir, "Chaos directory")
	fs.StringVar(&cfg.SchemaDir, "schema-dir", cfg.SchemaDir, "Directory for exported schema files")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent validation workers (0 = unbounded)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	return fs.Parse(args)
}

// findUserConfigFile looks for the per-user config file.
func findUserConfigFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(configDir, "chaos", DefaultConfigName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// findProjectConfigFile looks for chaos.toml or .chaos.toml in the
// current directory.
func findProjectConfigFile() string {
	for _, name := range []string{DefaultConfigName, "." + DefaultConfigName} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// finalizeConfig computes derived values.
func finalizeConfig(cfg *Config) error {
	cfg.ChaosDir = expandPath(cfg.ChaosDir)
	cfg.SchemaDir = expandPath(cfg.SchemaDir)

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if !filepath.IsAbs(cfg.ChaosDir) {
		cfg.ChaosDir = filepath.Join(cfg.WorkDir, cfg.ChaosDir)
	}
	return nil
}
