package pipeline

// ListStats summarizes one booklist run.
type ListStats struct {
	Files        int // Files matching the extension allow-list.
	Names        int // Distinct classifiable names sent to the provider.
	LookupFailed int // Provider errors (recorded as empty readings).
	Unclassified int // Records whose group code is the sentinel.
	Unreadable   int // Records with an empty group code.
}

// MoveStats tracks aggregate counters and byte totals across a bookmove run.
type MoveStats struct {
	Rows    int
	Moved   int // Files renamed (live mode).
	Planned int // Files that would be moved (dry run).
	Skipped int // Invalid code, bad row, missing source or existing target.
	Failed  int // I/O errors.
	Bytes   int64
}

// OK reports whether the batch counts as a success: per-record problems are
// tolerated unless records failed and nothing could be processed at all.
func (s *MoveStats) OK() bool {
	return s.Failed == 0 || s.Moved+s.Planned > 0
}
