// Package generator renders the project dictionary into flight and ground
// artifacts. Each generator is registered under the name used by the
// `generate --only` flag.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"sort"
	"time"

	"github.com/openfsw/dictgen/internal/dict"
	"github.com/openfsw/dictgen/internal/output"
)

// Endian selects the target byte order for the ground-system outputs.
type Endian int

const (
	BigEndian Endian = iota
	BigEndianSwap
	LittleEndian
	LittleEndianSwap
)

// Suffix is the file-name tag for the byte order ("BE" or "LE").
func (e Endian) Suffix() string {
	if e.Little() {
		return "LE"
	}
	return "BE"
}

// Little reports whether the target byte order is little-endian.
func (e Endian) Little() bool {
	return e == LittleEndian || e == LittleEndianSwap
}

// Swapped reports whether raw telemetry arrives byte-swapped relative to
// the target order.
func (e Endian) Swapped() bool {
	return e == BigEndianSwap || e == LittleEndianSwap
}

// ParseEndian maps a flag value to its byte order.
func ParseEndian(s string) (Endian, error) {
	switch s {
	case "big":
		return BigEndian, nil
	case "big-swap":
		return BigEndianSwap, nil
	case "little":
		return LittleEndian, nil
	case "little-swap":
		return LittleEndianSwap, nil
	}
	return BigEndian, fmt.Errorf("unknown byte order %q (big, big-swap, little, little-swap)", s)
}

// Options carries the run-wide rendering settings. Timestamp is stamped
// into every creation banner, so a pinned value makes reruns reproducible.
type Options struct {
	Endian    Endian
	Timestamp time.Time
	User      string
}

// creationInfo builds the standard banner for one generator run.
func (o Options) creationInfo(p *dict.Project, generator string) output.CreationInfo {
	return output.CreationInfo{
		Timestamp: o.Timestamp,
		User:      o.User,
		Project:   p.Name,
		Generator: generator,
		Tables:    p.TableNames(),
		Groups:    p.GroupNames(),
	}
}

// Func renders one artifact family into outputDir.
type Func func(logger *slog.Logger, outputDir string, p *dict.Project, opts Options) error

var generators = map[string]Func{
	"copytable":   GenerateCopyTable,
	"scheduler":   GenerateScheduler,
	"msgids":      GenerateMessageIDs,
	"types":       GenerateTypes,
	"sharedtypes": GenerateSharedTypes,
	"startup":     GenerateStartup,
	"recfile":     GenerateRecFiles,
	"pagefile":    GeneratePageFiles,
	"rosmsg":      GenerateROSMessages,
}

// Names lists the registered generator names, sorted.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runner dispatches generator runs against one loaded project.
type Runner struct {
	outputDir string
	logger    *slog.Logger
	project   *dict.Project
	opts      Options
}

func New(outputDir string, logger *slog.Logger, project *dict.Project, opts Options) *Runner {
	if opts.Timestamp.IsZero() {
		opts.Timestamp = time.Now()
	}
	if opts.User == "" {
		opts.User = currentUser()
	}
	return &Runner{
		outputDir: outputDir,
		logger:    logger,
		project:   project,
		opts:      opts,
	}
}

// GenAll runs every registered generator in name order. A generator that
// fails is logged and skipped; the remaining generators still run, and the
// collected failures come back joined.
func (r *Runner) GenAll() error {
	var errs []error
	for _, name := range Names() {
		if err := r.Generate(name); err != nil {
			r.logger.Error("Generator failed", "generator", name, "error", err)
			errs = append(errs, fmt.Errorf("generate %s artifacts: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Generate runs one generator by name.
func (r *Runner) Generate(name string) error {
	gen, ok := generators[name]
	if !ok {
		return fmt.Errorf("unsupported generator '%s' (supported: %v)", name, Names())
	}

	r.logger.Info("Generating artifacts", "generator", name)

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := gen(r.logger, r.outputDir, r.project, r.opts); err != nil {
		return err
	}

	r.logger.Info("Artifact generation complete", "generator", name, "output", r.outputDir)
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
