// Package reading resolves the katakana reading of a text through a
// morphological analyzer.
//
// The analyzer is reached only through [Provider]; [Kagome] is the
// production implementation and [Func] lets tests and callers plug in
// anything else.
package reading

import "context"

// Provider returns the phonetic reading of text as katakana. An error means
// the text could not be analyzed; callers treat that as an empty reading.
type Provider interface {
	Reading(ctx context.Context, text string) (string, error)
}

// Func adapts an ordinary function to [Provider].
type Func func(ctx context.Context, text string) (string, error)

// Reading calls f(ctx, text).
func (f Func) Reading(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
