// Package config holds runtime configuration for booklist and bookmove:
// defaults, YAML file, environment, CLI flags and validation.
//
// Sources are applied in increasing precedence: [DefaultConfig], the YAML
// file named by --config (or KANASHELF_CONFIG), the environment (including
// a .env file in the working directory), then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tool selects which command's flags are parsed and validated.
type Tool string

const (
	ToolList Tool = "booklist" // Classify a directory into a record list.
	ToolMove Tool = "bookmove" // Move files according to a record list.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// StdStream is the path value meaning stdin (for --csv) or stdout (for --out).
const StdStream = "-"

// ErrDirNotFound is returned by validation when a directory argument does
// not name an existing directory.
var ErrDirNotFound = errors.New("directory does not exist")

// DefaultExtensions is the archive/e-book allow-list (lowercase, with dot).
var DefaultExtensions = []string{
	".zip", ".rar", ".7z", ".tar", ".gz", ".lzh",
	".epub", ".mobi", ".pdf", ".azw3",
}

// Config holds all runtime settings for both tools. Fields a tool does not
// use keep their defaults.
type Config struct {
	// Shared.
	Dir        string   // booklist: directory to scan. bookmove: base directory.
	Extensions []string // Allow-list for booklist discovery.
	ConfigFile string   // Optional YAML file.

	// booklist.
	Short     bool   // Emit {code, filename} rows only.
	OutFile   string // Default: stdout.
	XLSXFile  string // Optional workbook export.
	CheckOnly bool   // Run --check diagnostics and exit.

	// bookmove.
	CSVFile      string // Default: stdin.
	DryRun       bool
	FirstDirOnly bool // Shelve under <X>行 only.
	Force        bool // Overwrite files already present at the destination.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with every default applied. booklist's
// directory defaults to the working directory.
func DefaultConfig() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Config{
		Dir:        cwd,
		Extensions: append([]string(nil), DefaultExtensions...),
		ColorMode:  ColorAuto,
	}
}

// NormalizeExtensions lowercases extensions and adds a missing leading dot.
// Empty entries are dropped.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// Validate checks the settings tool needs before any work begins.
func (c *Config) Validate(tool Tool) error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	switch tool {
	case ToolList:
		if len(c.Extensions) == 0 {
			return errors.New("extension allow-list is empty")
		}
		return requireDir(c.Dir)
	case ToolMove:
		if c.Dir == "" {
			return errors.New("--dir is required")
		}
		return requireDir(c.Dir)
	default:
		return fmt.Errorf("unknown tool %q", tool)
	}
}

// requireDir fails with ErrDirNotFound unless path is an existing directory.
func requireDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirNotFound, path)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" || path == string(filepath.Separator) {
		return path
	}
	return strings.TrimRight(path, "/"+string(filepath.Separator))
}
