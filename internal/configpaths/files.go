// Package configpaths locates dictgen configuration files on disk.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the per-user configuration directory for dictgen.
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, "dictgen"), nil
		}
		return "", errors.New("AppData not set")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dictgen"), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "dictgen"), nil
	}
	return "", errors.New("HOME not set")
}

// EnsureDir creates the parent directory of path if it is missing.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Candidates lists config file paths per loader format, highest priority
// first: an explicit user path, then the working directory, the user config
// directory, and /etc/dictgen on unix. The user path is routed to the loader
// matching its extension, defaulting to JSON.
func Candidates(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	type searchDir struct {
		dir   string
		bases []string
	}
	var dirs []searchDir
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, searchDir{wd, []string{"dictgen", "config", "generate"}})
	}
	if dir, err := ConfigDir(); err == nil {
		dirs = append(dirs, searchDir{dir, []string{"config", "generate"}})
	}
	if runtime.GOOS != "windows" {
		dirs = append(dirs, searchDir{"/etc/dictgen", []string{"config", "generate"}})
	}

	for _, d := range dirs {
		for _, base := range d.bases {
			jsonPaths = append(jsonPaths, filepath.Join(d.dir, base+".json"))
			yamlPaths = append(yamlPaths, filepath.Join(d.dir, base+".yaml"))
			yamlPaths = append(yamlPaths, filepath.Join(d.dir, base+".yml"))
			tomlPaths = append(tomlPaths, filepath.Join(d.dir, base+".toml"))
		}
	}
	return jsonPaths, yamlPaths, tomlPaths
}
