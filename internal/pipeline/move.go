package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/kanashelf/internal/config"
	"github.com/backmassage/kanashelf/internal/csvrow"
	"github.com/backmassage/kanashelf/internal/display"
	"github.com/backmassage/kanashelf/internal/kana"
	"github.com/backmassage/kanashelf/internal/logging"
	"github.com/backmassage/kanashelf/internal/naming"
)

// Outcome is what happened to one record.
type Outcome int

const (
	OutcomeMoved   Outcome = iota // File renamed into its shelf.
	OutcomePlanned                // Dry run: commands printed.
	OutcomeSkipped                // Nothing to do or not allowed.
	OutcomeFailed                 // I/O error.
)

// Mover shelves files under BaseDir according to their group code.
type Mover struct {
	BaseDir      string
	DryRun       bool
	FirstDirOnly bool
	Force        bool      // Replace a file already at the destination.
	Out          io.Writer // Receives dry-run commands.
	Log          *logging.Logger

	claims *naming.SourceClaims // dry run only
}

// NewMover returns a Mover configured from cfg that prints dry-run commands
// to out.
func NewMover(cfg *config.Config, log *logging.Logger, out io.Writer) *Mover {
	return &Mover{
		BaseDir:      cfg.Dir,
		DryRun:       cfg.DryRun,
		FirstDirOnly: cfg.FirstDirOnly,
		Force:        cfg.Force,
		Out:          out,
		Log:          log,
	}
}

// Move shelves one file. Every problem is logged and reported through the
// outcome; nothing here aborts a batch. The returned size is the number of
// bytes moved (0 unless the outcome is OutcomeMoved).
func (m *Mover) Move(code, filename string) (Outcome, int64) {
	if !kana.IsDirectoryCode(code) {
		m.Log.Warn("Invalid directory code %q, skipping: %s", code, filename)
		return OutcomeSkipped, 0
	}
	if filename == "" || filename == "." || filename == ".." || filepath.Base(filename) != filename {
		m.Log.Warn("Invalid filename %q, skipping", filename)
		return OutcomeSkipped, 0
	}

	src := filepath.Join(m.BaseDir, filename)
	dir := naming.TargetDir(m.BaseDir, code, m.FirstDirOnly)
	dst := filepath.Join(dir, filename)

	if m.DryRun {
		if m.claims == nil {
			m.claims = naming.NewSourceClaims()
		}
		if prev, ok := m.claims.Claim(src, dst); !ok {
			m.Log.Warn("File not found (already planned for %s): %s", prev, filename)
			return OutcomeSkipped, 0
		}
		fmt.Fprintf(m.Out, "mkdir -p %s\n", dir)
		fmt.Fprintf(m.Out, "mv %s %s\n", src, dst)
		return OutcomePlanned, 0
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.Log.Error("Cannot create directory %s: %v", dir, err)
		return OutcomeFailed, 0
	}

	fi, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		m.Log.Warn("File not found: %s", filename)
		return OutcomeSkipped, 0
	}
	if err != nil {
		m.Log.Error("Cannot stat %s: %v", src, err)
		return OutcomeFailed, 0
	}

	if !m.Force {
		if _, err := os.Lstat(dst); err == nil {
			m.Log.Warn("Skip (exists): %s", dst)
			return OutcomeSkipped, 0
		}
	}

	if err := os.Rename(src, dst); err != nil {
		m.Log.Error("Cannot move %s: %v", filename, err)
		return OutcomeFailed, 0
	}
	m.Log.Success("Moved: %s -> %s", filename, dir)
	return OutcomeMoved, fi.Size()
}

// RunMove is the bookmove entry point: read records from in and shelve each
// one in file order. Only a failure to read the input or cancellation
// returns an error; per-record problems are counted in the stats.
func RunMove(ctx context.Context, m *Mover, in io.Reader) (MoveStats, error) {
	var stats MoveStats
	r := csvrow.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			m.Log.Warn("Interrupted")
			return stats, err
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			stats.Rows++
			stats.Skipped++
			m.Log.Warn("Malformed record at line %d: %v", perr.StartLine, perr.Err)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read records: %w", err)
		}

		stats.Rows++
		code, filename, ok := csvrow.CodeAndName(row)
		if !ok {
			stats.Skipped++
			continue
		}

		outcome, size := m.Move(code, filename)
		switch outcome {
		case OutcomeMoved:
			stats.Moved++
			stats.Bytes += size
		case OutcomePlanned:
			stats.Planned++
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeFailed:
			stats.Failed++
		}
	}

	logMoveSummary(m, &stats)
	return stats, nil
}

func logMoveSummary(m *Mover, stats *MoveStats) {
	m.Log.Info("==============================")
	if m.DryRun {
		m.Log.Info("Done (dry run): %d records, %d planned, %d skipped", stats.Rows, stats.Planned, stats.Skipped)
		return
	}
	m.Log.Info("Done: %d records, %d moved, %d skipped, %d failed", stats.Rows, stats.Moved, stats.Skipped, stats.Failed)
	if stats.Moved > 0 {
		m.Log.Success("  Moved %s", display.FormatBytes(stats.Bytes))
	}
}
