// Package output provides the buffered artifact file writer shared by the
// generators, including the standard creation-information banner.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CreationInfo is the provenance banner written at the top of every
// generated artifact.
type CreationInfo struct {
	Timestamp time.Time
	User      string
	Project   string
	Generator string
	Tables    []string
	Groups    []string
}

// File is a buffered artifact writer. Write errors are sticky: the first
// one is kept and returned by Close, so generators can emit a whole file
// and check once.
type File struct {
	path string
	f    *os.File
	w    *bufio.Writer
	err  error
}

// Create opens an artifact file for writing, creating parent directories
// as needed.
func Create(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &File{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Path is the file's path as given to Create.
func (f *File) Path() string {
	return f.path
}

// Line writes s followed by a newline.
func (f *File) Line(s string) {
	if f.err != nil {
		return
	}
	if _, err := f.w.WriteString(s + "\n"); err != nil {
		f.err = err
	}
}

// Printf writes formatted text without an implicit newline.
func (f *File) Printf(format string, args ...any) {
	if f.err != nil {
		return
	}
	if _, err := fmt.Fprintf(f.w, format, args...); err != nil {
		f.err = err
	}
}

// Blank writes an empty line.
func (f *File) Blank() {
	f.Line("")
}

// Close flushes and closes the file, returning the first error seen on any
// write.
func (f *File) Close() error {
	if err := f.w.Flush(); err != nil && f.err == nil {
		f.err = err
	}
	if err := f.f.Close(); err != nil && f.err == nil {
		f.err = err
	}
	if f.err != nil {
		return fmt.Errorf("write %s: %w", f.path, f.err)
	}
	return nil
}

// timestampLayout mirrors the banner date format the ground tools expect.
const timestampLayout = "Mon Jan 02 15:04:05 MST 2006"

// CHeaderComment writes the creation banner as a C block comment followed
// by a blank line.
func (f *File) CHeaderComment(info CreationInfo) {
	f.Printf("/* Created : %s\n   User    : %s\n   Project : %s\n   Script  : %s\n",
		info.Timestamp.Format(timestampLayout), info.User, info.Project, info.Generator)
	if len(info.Tables) > 0 {
		f.Printf("   Table(s): %s\n", joinSorted(info.Tables, ",\n             "))
	}
	if len(info.Groups) > 0 {
		f.Printf("   Group(s): %s\n", joinSorted(info.Groups, ",\n             "))
	}
	f.Line("*/")
	f.Blank()
}

// HashComment writes the creation banner as hash-prefixed comment lines
// followed by a blank line.
func (f *File) HashComment(info CreationInfo) {
	f.Printf("# Created : %s\n# User    : %s\n# Project : %s\n# Script  : %s\n",
		info.Timestamp.Format(timestampLayout), info.User, info.Project, info.Generator)
	if len(info.Tables) > 0 {
		f.Printf("# Table(s): %s\n", joinSorted(info.Tables, ",\n#           "))
	}
	if len(info.Groups) > 0 {
		f.Printf("# Group(s): %s\n", joinSorted(info.Groups, ",\n#           "))
	}
	f.Blank()
}

func joinSorted(names []string, sep string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, sep)
}
