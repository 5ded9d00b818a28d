package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/generator"
)

// Generate renders a project dictionary into flight and ground artifacts.
type Generate struct {
	Project   string   `arg:"" help:"Project dictionary file (YAML)" type:"existingfile"`
	Output    string   `help:"Output directory for generated artifacts" default:"./generated" env:"DICTGEN_OUTPUT"`
	Only      []string `help:"Generators to run (default: all). Repeat or comma-separate" env:"DICTGEN_ONLY"`
	Endian    string   `help:"Target byte order for ground-system files, or 'ask' to prompt" enum:"big,big-swap,little,little-swap,ask" default:"big" env:"DICTGEN_ENDIAN"`
	Timestamp string   `help:"Pin the creation timestamp (RFC3339) for reproducible output"`
}

// Run is called by Kong when the generate command is executed.
func (c *Generate) Run(logger *slog.Logger) error {
	p, err := dict.Load(c.Project)
	if err != nil {
		return err
	}

	endianValue := c.Endian
	if endianValue == "ask" {
		endianValue, err = askEndian()
		if err != nil {
			return err
		}
	}
	endian, err := generator.ParseEndian(endianValue)
	if err != nil {
		return err
	}

	opts := generator.Options{Endian: endian}
	if c.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, c.Timestamp)
		if err != nil {
			return fmt.Errorf("invalid --timestamp: %w", err)
		}
		opts.Timestamp = ts
	}

	logger.Info("Starting artifact generation",
		"project", p.Name, "output", c.Output, "endian", endianValue)

	gen := generator.New(c.Output, logger, p, opts)
	if len(c.Only) == 0 {
		return gen.GenAll()
	}
	for _, name := range c.Only {
		if err := gen.Generate(strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	return nil
}

// askEndian prompts for the byte order on an interactive terminal. A
// non-interactive run falls back to big-endian.
func askEndian() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "big", nil
	}
	fmt.Print("Byte order [big, big-swap, little, little-swap] (big): ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read byte order: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "big", nil
	}
	return line, nil
}
