package pipeline

import (
	"context"

	"github.com/backmassage/kanashelf/internal/kana"
	"github.com/backmassage/kanashelf/internal/logging"
	"github.com/backmassage/kanashelf/internal/naming"
	"github.com/backmassage/kanashelf/internal/reading"
)

// Entry is the resolved reading of one extracted name.
type Entry struct {
	Reading    string // As returned by the provider; "" when lookup failed.
	Normalized string // kana.Normalize(Reading).
}

// ReadingCache maps an extracted name to its reading for one run.
type ReadingCache map[string]Entry

// DistinctNames returns each name once, in first-appearance order, leaving
// out the unclassified sentinel. This is the first phase of the lookup: the
// result is exactly the set of provider calls BuildCache will make.
func DistinctNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if n == naming.Unclassified || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// BuildCache resolves every name through p, one call per name, in order.
// A failed lookup is logged and stored as an empty reading; the returned
// count says how many failed. Only context cancellation stops the loop.
func BuildCache(ctx context.Context, p reading.Provider, names []string, log *logging.Logger, verbose bool) (ReadingCache, int, error) {
	cache := make(ReadingCache, len(names))
	failed := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return cache, failed, err
		}
		raw, err := p.Reading(ctx, name)
		if err != nil {
			log.Warn("Reading lookup failed for %q: %v", name, err)
			failed++
			raw = ""
		}
		e := Entry{Reading: raw, Normalized: kana.Normalize(raw)}
		log.Debug(verbose, "%s -> %s (%s)", name, e.Reading, e.Normalized)
		cache[name] = e
	}
	return cache, failed, nil
}
