package pipeline

import (
	"cmp"
	"slices"

	"github.com/backmassage/kanashelf/internal/kana"
	"github.com/backmassage/kanashelf/internal/naming"
)

// FullHeaders names the fields of a full-form row, in order.
var FullHeaders = []string{
	"group_code", "head2", "normalized_reading", "reading", "extracted_name", "filename",
}

// Record is the classification of one file.
type Record struct {
	GroupCode  string
	Head2      string // First two runes of Normalized.
	Normalized string
	Reading    string
	Name       string // Extracted bracket title, or "!!".
	Filename   string
}

// NewRecord classifies filename from its extracted name and the run's cache.
// Unclassified names get the sentinel in every derived field.
func NewRecord(filename, name string, cache ReadingCache) Record {
	if name == naming.Unclassified {
		return Record{
			GroupCode:  kana.Sentinel,
			Head2:      kana.Sentinel,
			Normalized: kana.Sentinel,
			Reading:    kana.Sentinel,
			Name:       name,
			Filename:   filename,
		}
	}
	e := cache[name]
	return Record{
		GroupCode:  kana.ValidGroupCode(e.Normalized),
		Head2:      kana.Head(e.Normalized, 2),
		Normalized: e.Normalized,
		Reading:    e.Reading,
		Name:       name,
		Filename:   filename,
	}
}

// Row returns the record's fields in output order: {GroupCode, Filename} in
// short form, otherwise the six fields of [FullHeaders].
func (r Record) Row(short bool) []string {
	if short {
		return []string{r.GroupCode, r.Filename}
	}
	return []string{r.GroupCode, r.Head2, r.Normalized, r.Reading, r.Name, r.Filename}
}

// SortRecords orders records by (GroupCode, Filename) in code-point order.
// The sort is stable, so records equal on both keys keep their input order.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := cmp.Compare(a.GroupCode, b.GroupCode); c != 0 {
			return c
		}
		return cmp.Compare(a.Filename, b.Filename)
	})
}
