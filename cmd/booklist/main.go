// Command booklist classifies the archives and e-books in a directory by
// the katakana reading of their bracketed titles and writes one CSV row per
// file, sorted by group code.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/kanashelf/internal/check"
	"github.com/backmassage/kanashelf/internal/config"
	"github.com/backmassage/kanashelf/internal/logging"
	"github.com/backmassage/kanashelf/internal/pipeline"
	"github.com/backmassage/kanashelf/internal/reading"
)

// version is injected at build time via -ldflags.
var version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. Until the logger exists, errors go to stderr via fmt.
	cfg, err := config.Load(config.ToolList, os.Args[1:], version)
	if errors.Is(err, flag.ErrHelp) || errors.Is(err, config.ErrVersion) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "booklist: %v\n", err)
		return 1
	}
	if err := cfg.Validate(config.ToolList); err != nil {
		fmt.Fprintf(os.Stderr, "booklist: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "booklist: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Signal handling. The assembler stops between lookups.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping after the current lookup")
		cancel()
	}()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, &cfg, log, check.KagomeFactory) {
			return 1
		}
		return 0
	}

	// Phase 3: Load the analyzer once and classify.
	log.Debug(cfg.Verbose, "Loading analyzer")
	provider, err := reading.NewKagome()
	if err != nil {
		log.Error("Cannot load analyzer: %v", err)
		return 1
	}

	if _, err := pipeline.RunList(ctx, &cfg, provider, log, os.Stdout); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
