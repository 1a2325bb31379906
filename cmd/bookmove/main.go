// Command bookmove reads the records written by booklist and moves each
// file into <dir>/<X>行/<code>, or only <dir>/<X>行 with --first-dir.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/kanashelf/internal/config"
	"github.com/backmassage/kanashelf/internal/logging"
	"github.com/backmassage/kanashelf/internal/pipeline"
)

// version is injected at build time via -ldflags.
var version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. Until the logger exists, errors go to stderr via fmt.
	cfg, err := config.Load(config.ToolMove, os.Args[1:], version)
	if errors.Is(err, flag.ErrHelp) || errors.Is(err, config.ErrVersion) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookmove: %v\n", err)
		return 1
	}
	if err := cfg.Validate(config.ToolMove); err != nil {
		fmt.Fprintf(os.Stderr, "bookmove: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bookmove: %v\n", err)
		return 1
	}
	defer log.Close()

	in, closeIn, err := openInput(cfg.CSVFile)
	if err != nil {
		log.Error("Cannot open records: %v", err)
		return 1
	}
	defer closeIn()

	log.Info("Base: %s", cfg.Dir)
	if cfg.DryRun {
		log.Warn("DRY RUN: nothing will be moved")
	}

	// Phase 2: Signal handling. The mover stops between records.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping after the current file")
		cancel()
	}()

	// Phase 3: Move.
	mover := pipeline.NewMover(&cfg, log, os.Stdout)
	stats, err := pipeline.RunMove(ctx, mover, in)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if !stats.OK() {
		return 1
	}
	return 0
}

// openInput opens path, or stdin when path is empty or "-".
func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == config.StdStream {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
