package cmd

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/generator"
)

// List prints a summary of the tables a project dictionary defines and the
// generators available to render them.
type List struct {
	Project string `arg:"" help:"Project dictionary file (YAML)" type:"existingfile"`
}

func (c *List) Run(logger *slog.Logger) error {
	p, err := dict.Load(c.Project)
	if err != nil {
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	heading.Printf("Project: %s\n\n", p.Name)

	heading.Println("Structures")
	roots := map[string]bool{}
	for _, name := range p.RootStructureNames() {
		roots[name] = true
	}
	for _, name := range p.StructureNamesByReferenceOrder() {
		size, _ := p.StructureSize(name)
		tag := ""
		if roots[name] {
			tag += " root"
		}
		if p.IsStructureShared(name) {
			tag += " shared"
		}
		fmt.Printf("  %-32s %5d bytes%s\n", name, size, tag)
	}

	if names := p.CommandTableNames(); len(names) > 0 {
		fmt.Println()
		heading.Println("Command tables")
		for _, ct := range p.CommandTables {
			fmt.Printf("  %-32s %d commands\n", ct.Name, len(ct.Commands))
		}
	}

	if names := p.StreamNames(); len(names) > 0 {
		fmt.Println()
		heading.Println("Telemetry streams")
		for _, s := range p.Streams {
			fmt.Printf("  %-32s %d messages\n", s.Name, len(s.Messages))
		}
	}

	if names := p.TableNames(); len(names) > 0 {
		fmt.Println()
		heading.Println("Data tables")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
	}

	if names := p.GroupNames(); len(names) > 0 {
		fmt.Println()
		heading.Println("Groups")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
	}

	fmt.Println()
	heading.Println("Generators")
	for _, name := range generator.Names() {
		fmt.Printf("  %s\n", name)
	}
	dim.Println("\nUse generate --only <name> to run a subset.")

	return nil
}
