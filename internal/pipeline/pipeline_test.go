package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/backmassage/kanashelf/internal/config"
	"github.com/backmassage/kanashelf/internal/logging"
	"github.com/backmassage/kanashelf/internal/reading"
)

// --- helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = ""
	l, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	l.SetOutput(&buf)
	t.Cleanup(func() { l.Close() })
	return l, &buf
}

// countingProvider returns fixed readings and records every call.
type countingProvider struct {
	readings map[string]string
	fail     map[string]bool
	calls    []string
}

func (p *countingProvider) Reading(_ context.Context, text string) (string, error) {
	p.calls = append(p.calls, text)
	if p.fail[text] {
		return "", errors.New("analyzer failed")
	}
	return p.readings[text], nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- Discover ---

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.ZIP")
	touch(t, dir, "a.epub")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".zip")
	touch(t, dir, "noext")
	if err := os.Mkdir(filepath.Join(dir, "sub.zip"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub.zip"), "inner.zip")

	got, err := Discover(dir, []string{".zip", ".epub"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"a.epub", "b.ZIP"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope"), config.DefaultExtensions); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestExtOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"book.PDF", ".pdf"},
		{"archive.tar.gz", ".gz"},
		{".zip", ""},
		{"..zip", ""},
		{".hidden.zip", ".zip"},
		{"plain", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extOf(tt.name); got != tt.want {
				t.Errorf("extOf(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

// --- cache ---

func TestDistinctNames(t *testing.T) {
	got := DistinctNames([]string{"b", "!!", "a", "b", "!!", "a", "c"})
	want := []string{"b", "a", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DistinctNames mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCache_FailureIsEmptyReading(t *testing.T) {
	log, buf := testLogger(t)
	p := &countingProvider{
		readings: map[string]string{"ほん": "ホン"},
		fail:     map[string]bool{"壊": true},
	}
	cache, failed, err := BuildCache(context.Background(), p, []string{"ほん", "壊"}, log, false)
	if err != nil {
		t.Fatalf("BuildCache: %v", err)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if e := cache["壊"]; e.Reading != "" || e.Normalized != "" {
		t.Errorf("failed entry = %+v, want empty", e)
	}
	if e := cache["ほん"]; e.Normalized != "ホン" {
		t.Errorf("entry = %+v", e)
	}
	if !strings.Contains(buf.String(), "Reading lookup failed") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestBuildCache_Cancelled(t *testing.T) {
	log, _ := testLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &countingProvider{}
	_, _, err := BuildCache(ctx, p, []string{"a"}, log, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(p.calls) != 0 {
		t.Errorf("provider called %d times after cancel", len(p.calls))
	}
}

// --- Assemble ---

func TestAssemble_OneLookupPerName(t *testing.T) {
	log, _ := testLogger(t)
	p := &countingProvider{readings: map[string]string{
		"タイトル": "タイトル",
		"かがみ":  "カガミ",
	}}
	files := []string{
		"[かがみ] 1.zip",
		"Title[タイトル].zip",
		"[かがみ] 2.zip",
		"[タイトル×絵師] x.pdf",
		"randomfile.pdf",
	}

	records, stats, err := Assemble(context.Background(), p, log, false, files)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if diff := cmp.Diff([]string{"かがみ", "タイトル"}, p.calls); diff != "" {
		t.Errorf("provider calls (-want +got):\n%s", diff)
	}
	if stats.Files != 5 || stats.Names != 2 || stats.Unclassified != 1 {
		t.Errorf("stats = %+v", stats)
	}

	var got [][]string
	for _, r := range records {
		got = append(got, r.Row(true))
	}
	want := [][]string{
		{"!!", "randomfile.pdf"},
		{"カカ", "[かがみ] 1.zip"},
		{"カカ", "[かがみ] 2.zip"},
		{"タア", "Title[タイトル].zip"},
		{"タア", "[タイトル×絵師] x.pdf"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
}

func TestAssemble_FullRows(t *testing.T) {
	log, _ := testLogger(t)
	p := reading.Func(func(_ context.Context, text string) (string, error) {
		if text == "タイトル" {
			return "タイトル", nil
		}
		return "", nil
	})

	records, _, err := Assemble(context.Background(), p, log, false, []string{"Title[タイトル].zip", "randomfile.pdf"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := [][]string{
		{"!!", "!!", "!!", "!!", "!!", "randomfile.pdf"},
		{"タア", "タイ", "タイトル", "タイトル", "タイトル", "Title[タイトル].zip"},
	}
	var got [][]string
	for _, r := range records {
		got = append(got, r.Row(false))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestAssemble_NonKatakanaAndEmpty(t *testing.T) {
	log, _ := testLogger(t)
	p := &countingProvider{
		readings: map[string]string{"ABC": "ABC"},
		fail:     map[string]bool{"壊": true},
	}
	records, stats, err := Assemble(context.Background(), p, log, false, []string{"[ABC].zip", "[壊].zip"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if records[0].GroupCode != "" || records[0].Filename != "[壊].zip" {
		t.Errorf("records[0] = %+v, want empty code for failed lookup", records[0])
	}
	if records[1].GroupCode != "!!" || records[1].Head2 != "AB" {
		t.Errorf("records[1] = %+v, want sentinel code with raw head", records[1])
	}
	if stats.LookupFailed != 1 || stats.Unreadable != 1 || stats.Unclassified != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSortRecords_Stable(t *testing.T) {
	records := []Record{
		{GroupCode: "タア", Filename: "b"},
		{GroupCode: "カカ", Filename: "z", Name: "first"},
		{GroupCode: "!!", Filename: "a"},
		{GroupCode: "カカ", Filename: "z", Name: "second"},
	}
	SortRecords(records)
	var got []string
	for _, r := range records {
		got = append(got, r.GroupCode+"/"+r.Filename+"/"+r.Name)
	}
	want := []string{"!!/a/", "カカ/z/first", "カカ/z/second", "タア/b/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

// --- RunList ---

func TestRunList_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "[いぬ] 1.zip")
	touch(t, dir, "other.txt")
	log, _ := testLogger(t)

	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.Short = true
	cfg.XLSXFile = filepath.Join(dir, "out", "books.xlsx")
	p := reading.Func(func(context.Context, string) (string, error) { return "イヌ", nil })

	var out bytes.Buffer
	stats, err := RunList(context.Background(), &cfg, p, log, &out)
	if err != nil {
		t.Fatalf("RunList: %v", err)
	}
	if stats.Files != 1 {
		t.Errorf("Files = %d, want 1", stats.Files)
	}
	if got, want := out.String(), "アナ,[いぬ] 1.zip\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if !exists(cfg.XLSXFile) {
		t.Error("workbook not written")
	}
}

func TestRunList_OutFileAndEmptyDir(t *testing.T) {
	dir := t.TempDir()
	log, _ := testLogger(t)
	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.OutFile = filepath.Join(t.TempDir(), "list.csv")

	var out bytes.Buffer
	if _, err := RunList(context.Background(), &cfg, reading.Func(func(context.Context, string) (string, error) {
		t.Error("provider called for empty directory")
		return "", nil
	}), log, &out); err != nil {
		t.Fatalf("RunList: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	b, err := os.ReadFile(cfg.OutFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(b) != 0 {
		t.Errorf("output file = %q, want empty", b)
	}
}

func TestRunList_CreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "[いぬ] 1.zip")
	log, _ := testLogger(t)
	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.Short = true
	cfg.OutFile = filepath.Join(t.TempDir(), "newdir", "list.csv")
	p := reading.Func(func(context.Context, string) (string, error) { return "イヌ", nil })

	var out bytes.Buffer
	if _, err := RunList(context.Background(), &cfg, p, log, &out); err != nil {
		t.Fatalf("RunList: %v", err)
	}
	b, err := os.ReadFile(cfg.OutFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(b), "アナ,[いぬ] 1.zip\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// --- Mover ---

func newTestMover(t *testing.T, base string, dryRun bool) (*Mover, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	log, logBuf := testLogger(t)
	var out bytes.Buffer
	return &Mover{BaseDir: base, DryRun: dryRun, Out: &out, Log: log}, &out, logBuf
}

func TestMover_Live(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "book.epub")
	m, out, _ := newTestMover(t, base, false)

	outcome, size := m.Move("カキ", "book.epub")
	if outcome != OutcomeMoved || size != 1 {
		t.Fatalf("Move = %v, %d", outcome, size)
	}
	if !exists(filepath.Join(base, "カ行", "カキ", "book.epub")) {
		t.Error("file not at destination")
	}
	if exists(filepath.Join(base, "book.epub")) {
		t.Error("source still present")
	}
	if out.Len() != 0 {
		t.Errorf("live run printed %q", out.String())
	}
}

func TestMover_DryRun(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "book.epub")
	m, out, _ := newTestMover(t, base, true)

	if outcome, _ := m.Move("カキ", "book.epub"); outcome != OutcomePlanned {
		t.Fatalf("outcome = %v, want planned", outcome)
	}
	dir := filepath.Join(base, "カ行", "カキ")
	want := "mkdir -p " + dir + "\n" +
		"mv " + filepath.Join(base, "book.epub") + " " + filepath.Join(dir, "book.epub") + "\n"
	if got := out.String(); got != want {
		t.Errorf("dry run output:\n%s\nwant:\n%s", got, want)
	}
	if !exists(filepath.Join(base, "book.epub")) {
		t.Error("dry run moved the file")
	}
	if exists(filepath.Join(base, "カ行")) {
		t.Error("dry run created a directory")
	}
}

func TestMover_DryRunRepeatedSource(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "book.epub")
	m, out, logBuf := newTestMover(t, base, true)

	if outcome, _ := m.Move("カキ", "book.epub"); outcome != OutcomePlanned {
		t.Fatalf("first outcome = %v", outcome)
	}
	if outcome, _ := m.Move("タア", "book.epub"); outcome != OutcomeSkipped {
		t.Errorf("repeated outcome = %v, want skipped", outcome)
	}
	if n := strings.Count(out.String(), "mv "); n != 1 {
		t.Errorf("printed %d mv commands, want 1", n)
	}
	if !strings.Contains(logBuf.String(), "already planned") {
		t.Errorf("log = %q", logBuf.String())
	}
}

func TestMover_FirstDirOnly(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "book.epub")
	m, _, _ := newTestMover(t, base, false)
	m.FirstDirOnly = true

	if outcome, _ := m.Move("カキ", "book.epub"); outcome != OutcomeMoved {
		t.Fatalf("outcome = %v", outcome)
	}
	if !exists(filepath.Join(base, "カ行", "book.epub")) {
		t.Error("file not in first-level directory")
	}
	if exists(filepath.Join(base, "カ行", "カキ")) {
		t.Error("second-level directory created")
	}
}

func TestMover_Skips(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		filename string
		logged   string
	}{
		{"sentinel code", "!!", "book.epub", "Invalid directory code"},
		{"one rune", "カ", "book.epub", "Invalid directory code"},
		{"hiragana", "かき", "book.epub", "Invalid directory code"},
		{"path traversal", "カキ", "../book.epub", "Invalid filename"},
		{"missing source", "カキ", "missing.epub", "File not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			touch(t, base, "book.epub")
			m, _, logBuf := newTestMover(t, base, false)

			if outcome, _ := m.Move(tt.code, tt.filename); outcome != OutcomeSkipped {
				t.Errorf("outcome = %v, want skipped", outcome)
			}
			if !strings.Contains(logBuf.String(), tt.logged) {
				t.Errorf("log %q does not contain %q", logBuf.String(), tt.logged)
			}
			if !exists(filepath.Join(base, "book.epub")) {
				t.Error("source moved")
			}
		})
	}
}

func TestMover_ExistingDestination(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "book.epub")
	dst := filepath.Join(base, "カ行", "カキ")
	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dst, "book.epub"), []byte("old content"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _, _ := newTestMover(t, base, false)
	if outcome, _ := m.Move("カキ", "book.epub"); outcome != OutcomeSkipped {
		t.Fatalf("outcome = %v, want skipped without force", outcome)
	}

	m.Force = true
	if outcome, _ := m.Move("カキ", "book.epub"); outcome != OutcomeMoved {
		t.Fatalf("outcome = %v, want moved with force", outcome)
	}
	b, _ := os.ReadFile(filepath.Join(dst, "book.epub"))
	if string(b) != "x" {
		t.Errorf("destination content = %q, want replaced", b)
	}
}

func TestRunMove(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "a.zip")
	touch(t, base, "b, c.zip")
	m, _, _ := newTestMover(t, base, false)

	in := strings.NewReader(strings.Join([]string{
		`カキ,a.zip`,
		``,
		`!!,randomfile.pdf`,
		`タア,タイ,タイトル,タイトル,タイトル,"b, c.zip"`,
		`カキ,gone.zip`,
		`onlyone`,
	}, "\n") + "\n")

	stats, err := RunMove(context.Background(), m, in)
	if err != nil {
		t.Fatalf("RunMove: %v", err)
	}
	want := MoveStats{Rows: 5, Moved: 2, Skipped: 3, Bytes: 2}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
	if !exists(filepath.Join(base, "タ行", "タア", "b, c.zip")) {
		t.Error("full-form row not moved")
	}
	if !stats.OK() {
		t.Error("OK() = false")
	}
}

func TestRunMove_ContinuesAfterFailure(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "a.zip")
	touch(t, base, "b.zip")
	// A regular file where the row directory should be makes MkdirAll fail.
	touch(t, base, "カ行")
	m, _, logBuf := newTestMover(t, base, false)

	stats, err := RunMove(context.Background(), m, strings.NewReader("カキ,a.zip\nタア,b.zip\n"))
	if err != nil {
		t.Fatalf("RunMove: %v", err)
	}
	want := MoveStats{Rows: 2, Moved: 1, Failed: 1, Bytes: 1}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
	if !stats.OK() {
		t.Error("OK() = false after a partial failure")
	}
	if !exists(filepath.Join(base, "a.zip")) {
		t.Error("failed source was moved")
	}
	if !exists(filepath.Join(base, "タ行", "タア", "b.zip")) {
		t.Error("row after the failure was not moved")
	}
	if !strings.Contains(logBuf.String(), "Cannot create directory") {
		t.Errorf("log = %q", logBuf.String())
	}
}

func TestRunMove_Cancelled(t *testing.T) {
	m, _, _ := newTestMover(t, t.TempDir(), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunMove(ctx, m, strings.NewReader("カキ,a.zip\n")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestMoveStats_OK(t *testing.T) {
	tests := []struct {
		name  string
		stats MoveStats
		want  bool
	}{
		{"empty", MoveStats{}, true},
		{"all skipped", MoveStats{Rows: 2, Skipped: 2}, true},
		{"some failed", MoveStats{Moved: 1, Failed: 1}, true},
		{"only failures", MoveStats{Failed: 2, Skipped: 1}, false},
		{"planned counts", MoveStats{Planned: 1, Failed: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}
