package config

// This file implements CLI flag parsing and help text for both tools.
// Flags are grouped into tool-specific, display, and utility groups.
// Negated flags (e.g. --no-color) are applied after Parse so earlier sources hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrVersion is returned by [ParseFlags] after --version has been printed.
// Like flag.ErrHelp it means "exit successfully without doing work".
var ErrVersion = errors.New("version requested")

// Load builds the effective configuration for tool from every source. args
// excludes the program name.
func Load(tool Tool, args []string, version string) (Config, error) {
	LoadDotEnv()

	// First pass only discovers --config; errors surface on the real pass.
	probe := DefaultConfig()
	ApplyEnv(&probe)
	_ = parse(tool, &probe, args, version, true)

	cfg := DefaultConfig()
	if probe.ConfigFile != "" {
		if err := LoadFile(&cfg, probe.ConfigFile); err != nil {
			return cfg, err
		}
	}
	ApplyEnv(&cfg)
	if err := ParseFlags(tool, &cfg, args, version); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseFlags parses args into cfg. On --help or --version it prints and
// returns flag.ErrHelp or [ErrVersion].
func ParseFlags(tool Tool, cfg *Config, args []string, version string) error {
	return parse(tool, cfg, args, version, false)
}

func parse(tool Tool, cfg *Config, args []string, version string, quiet bool) error {
	fs := flag.NewFlagSet(string(tool), flag.ContinueOnError)
	if quiet {
		fs.SetOutput(io.Discard)
		fs.Usage = func() {}
	} else {
		fs.Usage = func() { printUsage(tool, version) }
	}

	var negated negatedFlags

	switch tool {
	case ToolList:
		defineListFlags(fs, cfg)
	case ToolMove:
		defineMoveFlags(fs, cfg)
	default:
		return fmt.Errorf("unknown tool %q", tool)
	}
	defineSharedFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		if !quiet {
			printUsage(tool, version)
		}
		return flag.ErrHelp
	}
	if negated.showVersion {
		if !quiet {
			fmt.Fprintf(os.Stdout, "%s v%s\n", tool, version)
		}
		return ErrVersion
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	cfg.Dir = NormalizeDirArg(cfg.Dir)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either override the color mode or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineListFlags registers booklist's --dir, --short, --out, --xlsx, --ext, --check.
func defineListFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "Directory to scan (default: working directory)")
	fs.BoolVar(&cfg.Short, "short", cfg.Short, "Emit only group code and filename")
	fs.BoolVar(&cfg.Short, "s", cfg.Short, "Same as --short")
	fs.StringVar(&cfg.OutFile, "out", cfg.OutFile, "Output CSV file (default: stdout)")
	fs.StringVar(&cfg.OutFile, "o", cfg.OutFile, "Same as --out")
	fs.StringVar(&cfg.XLSXFile, "xlsx", cfg.XLSXFile, "Also write the full records to an .xlsx workbook")
	fs.Var(&extensionsValue{&cfg.Extensions}, "ext", "Comma-separated extension allow-list")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
}

// defineMoveFlags registers bookmove's --csv, --dir, --dry-run, --first-dir, --force.
func defineMoveFlags(fs *flag.FlagSet, cfg *Config) {
	cfg.Dir = "" // no default base directory
	fs.StringVar(&cfg.CSVFile, "csv", cfg.CSVFile, "Input record file (default: stdin)")
	fs.StringVar(&cfg.Dir, "dir", "", "Base directory holding the files (required)")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Print the commands instead of moving files")
	fs.BoolVar(&cfg.DryRun, "d", cfg.DryRun, "Same as --dry-run")
	fs.BoolVar(&cfg.FirstDirOnly, "first-dir", cfg.FirstDirOnly, "Shelve under <X>行 only")
	fs.BoolVar(&cfg.Force, "force", cfg.Force, "Overwrite files already at the destination")
	fs.BoolVar(&cfg.Force, "f", cfg.Force, "Same as --force")
}

// defineSharedFlags registers --config.
func defineSharedFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML configuration file")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies color overrides into cfg. --no-color wins over --color.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(tool Tool, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	type line struct {
		flags string
		desc  string
	}

	var lines []line
	switch tool {
	case ToolList:
		lines = []line{
			{"", "booklist v" + version + ": classify books by the reading of their [title]"},
			{"", ""},
			{"  booklist [OPTIONS]", ""},
			{"", ""},
			{"Input & output", ""},
			{"  --dir <path>", "Directory to scan (default: working directory)"},
			{"  --ext <list>", "Extension allow-list (default: " + strings.Join(DefaultExtensions, ",") + ")"},
			{"  -s, --short", "Emit only group code and filename"},
			{"  -o, --out <path>", "Output CSV file (default: stdout)"},
			{"  --xlsx <path>", "Also write the full records to a workbook"},
			{"  -c, --check", "Diagnostics (dictionary, directory access)"},
		}
	case ToolMove:
		lines = []line{
			{"", "bookmove v" + version + ": shelve books into kana-row directories"},
			{"", ""},
			{"  bookmove [OPTIONS] --dir <base>", ""},
			{"", ""},
			{"Input & behavior", ""},
			{"  --csv <path>", "Record file from booklist (default: stdin)"},
			{"  --dir <path>", "Base directory holding the files (required)"},
			{"  -d, --dry-run", "Print mkdir/mv commands; change nothing"},
			{"  --first-dir", "Shelve under <X>行 only"},
			{"  -f, --force", "Overwrite files already at the destination"},
		}
	}
	lines = append(lines,
		line{"", ""},
		line{"Display", ""},
		line{"  --color", "Force colored logs"},
		line{"  --no-color", "Disable colored logs"},
		line{"  -v, --verbose", "Verbose output"},
		line{"", ""},
		line{"Utility", ""},
		line{"  --config <path>", "YAML configuration file"},
		line{"  -l, --log <path>", "Append logs to file"},
		line{"  -V, --version", "Print version and exit"},
		line{"  -h, --help", "Show this help and exit"},
	)

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// extensionsValue adapts a comma-separated list to flag.Var.
type extensionsValue struct{ p *[]string }

func (e *extensionsValue) String() string {
	if e.p == nil {
		return ""
	}
	return strings.Join(*e.p, ",")
}

func (e *extensionsValue) Set(s string) error {
	exts := NormalizeExtensions(strings.Split(s, ","))
	if len(exts) == 0 {
		return fmt.Errorf("invalid extension list %q", s)
	}
	*e.p = exts
	return nil
}
