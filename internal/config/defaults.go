// Package config provides centralized configuration constants for contactbook.
// All default values should be defined here to ensure a single source of truth.
package config

const (
	// ConfigName is the config file name without extension (.contactbook.yaml).
	ConfigName = ".contactbook"

	// EnvPrefix prefixes every environment variable, e.g. CONTACTBOOK_DB.
	EnvPrefix = "CONTACTBOOK"

	// GlobalDirName is the per-user directory holding crash logs.
	GlobalDirName = ".contactbook"
)

// Default values for settings that are not empty by default.
const (
	DefaultOnCorrupt = "reset"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// Defaults returns the viper defaults keyed by config key.
func Defaults() map[string]any {
	return map[string]any{
		"db":         "",
		"format":     "",
		"on_corrupt": DefaultOnCorrupt,
		"json":       false,
		"verbose":    false,
		"log.level":  DefaultLogLevel,
		"log.format": DefaultLogFormat,
		"log.file":   "",
	}
}
