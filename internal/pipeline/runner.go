// Package pipeline classifies a directory of books into sorted records
// (booklist) and shelves files according to those records (bookmove).
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/kanashelf/internal/config"
	"github.com/backmassage/kanashelf/internal/csvrow"
	"github.com/backmassage/kanashelf/internal/export"
	"github.com/backmassage/kanashelf/internal/kana"
	"github.com/backmassage/kanashelf/internal/logging"
	"github.com/backmassage/kanashelf/internal/naming"
	"github.com/backmassage/kanashelf/internal/reading"
)

// Assemble classifies filenames: extract names, resolve each distinct name
// once through p, build one record per file and sort them.
func Assemble(ctx context.Context, p reading.Provider, log *logging.Logger, verbose bool, filenames []string) ([]Record, ListStats, error) {
	stats := ListStats{Files: len(filenames)}

	names := make([]string, len(filenames))
	for i, f := range filenames {
		names[i] = naming.ExtractName(f)
	}

	distinct := DistinctNames(names)
	stats.Names = len(distinct)
	cache, failed, err := BuildCache(ctx, p, distinct, log, verbose)
	stats.LookupFailed = failed
	if err != nil {
		return nil, stats, err
	}

	records := make([]Record, 0, len(filenames))
	for i, f := range filenames {
		r := NewRecord(f, names[i], cache)
		switch r.GroupCode {
		case kana.Sentinel:
			stats.Unclassified++
		case "":
			stats.Unreadable++
		}
		records = append(records, r)
	}
	SortRecords(records)
	return records, stats, nil
}

// WriteRecords writes one escaped row per record.
func WriteRecords(w io.Writer, records []Record, short bool) error {
	cw := csvrow.NewWriter(w)
	for _, r := range records {
		if err := cw.Write(r.Row(short)); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// RunList is the booklist entry point: discover cfg.Dir, classify, and write
// the records to cfg.OutFile (stdout when unset or "-") and, when
// configured, to cfg.XLSXFile. Discovery and output failures are returned;
// per-name lookup failures are only counted.
func RunList(ctx context.Context, cfg *config.Config, p reading.Provider, log *logging.Logger, stdout io.Writer) (ListStats, error) {
	files, err := Discover(cfg.Dir, cfg.Extensions)
	if err != nil {
		return ListStats{}, fmt.Errorf("read directory %s: %w", cfg.Dir, err)
	}
	log.Info("Found %d files in %s", len(files), cfg.Dir)

	records, stats, err := Assemble(ctx, p, log, cfg.Verbose, files)
	if err != nil {
		return stats, err
	}

	if err := writeOutput(cfg, records, stdout); err != nil {
		return stats, err
	}
	if cfg.XLSXFile != "" {
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = r.Row(false)
		}
		if err := export.WriteXLSX(cfg.XLSXFile, FullHeaders, rows); err != nil {
			return stats, fmt.Errorf("write workbook %s: %w", cfg.XLSXFile, err)
		}
		log.Info("Workbook: %s", cfg.XLSXFile)
	}

	logListSummary(log, &stats)
	return stats, nil
}

func writeOutput(cfg *config.Config, records []Record, stdout io.Writer) error {
	if cfg.OutFile == "" || cfg.OutFile == config.StdStream {
		return WriteRecords(stdout, records, cfg.Short)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutFile), 0o755); err != nil {
		return fmt.Errorf("create output directory for %s: %w", cfg.OutFile, err)
	}
	f, err := os.Create(cfg.OutFile)
	if err != nil {
		return fmt.Errorf("create output %s: %w", cfg.OutFile, err)
	}
	if err := WriteRecords(f, records, cfg.Short); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", cfg.OutFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output %s: %w", cfg.OutFile, err)
	}
	return nil
}

func logListSummary(log *logging.Logger, stats *ListStats) {
	log.Info("Done: %d files, %d distinct names", stats.Files, stats.Names)
	if stats.LookupFailed > 0 {
		log.Warn("  %d reading lookup(s) failed", stats.LookupFailed)
	}
	if stats.Unclassified > 0 {
		log.Warn("  %d file(s) unclassified (%s)", stats.Unclassified, kana.Sentinel)
	}
	if stats.Unreadable > 0 {
		log.Warn("  %d file(s) with an empty reading", stats.Unreadable)
	}
	if stats.LookupFailed == 0 && stats.Unclassified == 0 && stats.Unreadable == 0 {
		log.Success("  All files classified")
	}
}
