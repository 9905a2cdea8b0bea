/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	DB        string    `mapstructure:"db" json:"db"`
	Format    string    `mapstructure:"format" json:"format" validate:"omitempty,oneof=json yaml yml sqlite"`
	OnCorrupt string    `mapstructure:"on_corrupt" json:"on_corrupt" validate:"omitempty,oneof=reset fail"`
	JSON      bool      `mapstructure:"json" json:"json"`
	Verbose   bool      `mapstructure:"verbose" json:"verbose"`
	Config    string    `mapstructure:"config" json:"config,omitempty"`
	Log       LogConfig `mapstructure:"log" json:"log"`
}

// LogConfig controls the diagnostic logger. Logs always go to stderr unless
// File is set.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"omitempty,oneof=console json"`
	File   string `mapstructure:"file" json:"file,omitempty"`
}
