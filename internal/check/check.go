// Package check provides system diagnostics for --check mode: the reading
// analyzer and its dictionary, and access to the configured directories.
package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/kanashelf/internal/config"
	"github.com/backmassage/kanashelf/internal/kana"
	"github.com/backmassage/kanashelf/internal/reading"
)

// Sample is analyzed to prove the dictionary carries readings.
const (
	sampleText    = "本棚"
	sampleReading = "ホンダナ"
)

// ErrNoReading is reported when the analyzer loads but returns a reading
// that is not katakana.
var ErrNoReading = errors.New("analyzer returned no katakana reading")

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// ProviderFactory builds the reading provider under test.
type ProviderFactory func() (reading.Provider, error)

// KagomeFactory is the production factory.
func KagomeFactory() (reading.Provider, error) {
	return reading.NewKagome()
}

// RunCheck reports on the analyzer and the directories booklist would use.
// It keeps going after a failure and returns false if any check failed.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger, newProvider ProviderFactory) bool {
	log.Info("=== System Check ===")

	ok := checkProvider(ctx, cfg, log, newProvider)
	ok = checkDir(cfg.Dir, log) && ok
	ok = checkOutput(cfg.OutFile, log) && ok
	ok = checkOutput(cfg.XLSXFile, log) && ok

	if len(cfg.Extensions) == 0 {
		log.Warn("Extension list is empty; no files will be listed")
	} else {
		log.Info("Extensions: %s", strings.Join(cfg.Extensions, " "))
	}
	return ok
}

// checkProvider loads the analyzer and reads a known sample.
func checkProvider(ctx context.Context, cfg *config.Config, log Logger, newProvider ProviderFactory) bool {
	log.Info("Loading analyzer...")
	p, err := newProvider()
	if err != nil {
		log.Error("Analyzer failed to load: %v", err)
		return false
	}
	got, err := p.Reading(ctx, sampleText)
	if err != nil {
		log.Error("Analyzer failed on %q: %v", sampleText, err)
		return false
	}
	log.Debug(cfg.Verbose, "%s -> %s", sampleText, got)
	if got == "" || !kana.IsKatakana(got) {
		log.Error("%v (%q -> %q)", ErrNoReading, sampleText, got)
		return false
	}
	if got != sampleReading {
		log.Warn("Analyzer read %q as %q, expected %q", sampleText, got, sampleReading)
		return true
	}
	log.Success("Analyzer: %s -> %s", sampleText, got)
	return true
}

// checkDir verifies dir can be listed.
func checkDir(dir string, log Logger) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error("Cannot read directory %s: %v", dir, err)
		return false
	}
	log.Success("Directory: %s (%d entries)", dir, len(entries))
	return true
}

// checkOutput verifies the parent directory of an output file exists.
// Empty paths and stdout need nothing.
func checkOutput(path string, log Logger) bool {
	if path == "" || path == config.StdStream {
		return true
	}
	parent := filepath.Dir(path)
	fi, err := os.Stat(parent)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("Output directory %s will be created", parent)
		return true
	}
	if err != nil || !fi.IsDir() {
		log.Error("Output path %s is not usable", path)
		return false
	}
	log.Success("Output: %s", path)
	return true
}
