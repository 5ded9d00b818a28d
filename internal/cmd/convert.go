package cmd

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/openfsw/dictgen/internal/convert"
)

// Convert extracts structure definitions from C headers into the dictionary
// CSV exchange format.
type Convert struct {
	Name   string   `help:"System or application name for the output header (default: first input's base name)"`
	Type   string   `help:"Kind of tables being converted, used in the output header" default:"application"`
	Output string   `help:"Destination CSV file" default:"converted.csv" env:"DICTGEN_CONVERT_OUTPUT"`
	Inputs []string `arg:"" help:"C header files to convert" type:"existingfile"`
}

// Run is called by Kong when the convert command is executed.
func (c *Convert) Run(logger *slog.Logger) error {
	name := c.Name
	if name == "" {
		base := filepath.Base(c.Inputs[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	logger.Info("Converting C structures", "inputs", len(c.Inputs), "output", c.Output)
	return convert.Convert(logger, name, c.Type, c.Output, c.Inputs, time.Now())
}
