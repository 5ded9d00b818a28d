// Package config defines the command line surface of the dictgen tool.
package config

import (
	"github.com/openfsw/dictgen/internal/cmd"
)

// LogConfig controls the logger built at startup.
type LogConfig struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"DICTGEN_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of the console" env:"DICTGEN_LOG_FILE"`
}

// CLI is the root command structure parsed by Kong. Values can also be
// supplied through JSON/YAML/TOML configuration files; flags and
// environment variables override file values.
type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a configuration file" type:"path" env:"DICTGEN_CONFIG"`

	Generate cmd.Generate      `cmd:"" help:"Generate flight and ground artifacts from a project dictionary"`
	List     cmd.List          `cmd:"" help:"List the tables and generators for a project dictionary"`
	Convert  cmd.Convert       `cmd:"" help:"Convert C structure headers to the dictionary CSV format"`
	Cfg      cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}
