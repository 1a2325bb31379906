package reading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// ErrNoTokenizer is returned by a zero [Kagome].
var ErrNoTokenizer = errors.New("reading: tokenizer not initialized")

// Kagome reads text with the kagome tokenizer over the IPA dictionary.
// Building the dictionary is the expensive part, so one Kagome should be
// created per run and reused for every lookup. It is not safe for
// concurrent use.
type Kagome struct {
	tok  *tokenizer.Tokenizer
	mode tokenizer.TokenizeMode
}

// NewKagome loads the IPA dictionary and returns a ready provider.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("reading: load ipa dictionary: %w", err)
	}
	return &Kagome{tok: t, mode: tokenizer.Normal}, nil
}

// Reading concatenates the reading of every token in text. Tokens the
// dictionary has no reading for (Latin words, symbols, unknown words)
// contribute their surface form unchanged.
func (k *Kagome) Reading(ctx context.Context, text string) (reading string, err error) {
	if k == nil || k.tok == nil {
		return "", ErrNoTokenizer
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			reading, err = "", fmt.Errorf("reading: analyze %q: %v", text, r)
		}
	}()

	var b strings.Builder
	for _, tk := range k.tok.Analyze(text, k.mode) {
		if r, ok := tk.Reading(); ok && r != "" && r != "*" {
			b.WriteString(r)
			continue
		}
		b.WriteString(tk.Surface)
	}
	return b.String(), nil
}
