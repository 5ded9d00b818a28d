package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/openfsw/dictgen/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups the configuration helpers.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Write a configuration template for a command"`
}

// ConfigInit writes a config file template whose keys and defaults come
// from the command's own flag definitions.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to template" enum:"generate,convert"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file (defaults to <command>.<format>)"`
	Force   bool   `help:"Overwrite an existing file"`
}

func (c *ConfigInit) Run() error {
	var tpl map[string]any
	switch c.Command {
	case "generate":
		tpl = flagTemplate(reflect.TypeOf(Generate{}))
	case "convert":
		tpl = flagTemplate(reflect.TypeOf(Convert{}))
	default:
		return fmt.Errorf("unknown command %q", c.Command)
	}

	var data []byte
	var err error
	switch c.Format {
	case "json":
		data, err = json.MarshalIndent(tpl, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(tpl)
	case "toml":
		data, err = toml.Marshal(tpl)
	default:
		err = fmt.Errorf("unsupported format: %s", c.Format)
	}
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + c.Format
	}
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

// flagTemplate maps a command struct's flags to their default values.
// Positional arguments stay out: they name inputs, not configuration.
func flagTemplate(t reflect.Type) map[string]any {
	tpl := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if _, positional := f.Tag.Lookup("arg"); positional {
			continue
		}
		if v := flagDefault(f.Type, f.Tag.Get("default")); v != nil {
			tpl[configKey(f.Name)] = v
		}
	}
	return tpl
}

func configKey(name string) string {
	return strings.ToLower(name[:1]) + name[1:]
}

func flagDefault(t reflect.Type, def string) any {
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, _ := strconv.ParseBool(def)
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(def, 10, 64)
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, _ := strconv.ParseUint(def, 10, 64)
		return n
	case reflect.Float32, reflect.Float64:
		f, _ := strconv.ParseFloat(def, 64)
		return f
	case reflect.Slice:
		return []any{}
	default:
		return nil
	}
}
