package offline

import (
	"context"
	"errors"
	"strings"

	"github.com/ZaguanLabs/salin"
)

// Decoding defaults.
const (
	DefaultBeamWidth = 5
	DefaultMaxLength = 128
)

// ErrEmptyOutput is the cause of a detokenize failure that produced no text.
var ErrEmptyOutput = errors.New("decoder produced no text")

// Translator is the offline route: tokenize, beam search, detokenize.
// Each call makes exactly one decode attempt.
type Translator struct {
	vocab     *Vocabulary
	scorer    Scorer
	beamWidth int
	maxLength int
	lowercase bool
}

// Option configures a Translator.
type Option func(*Translator)

// WithBeamWidth sets the beam width. 1 is greedy decoding.
func WithBeamWidth(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.beamWidth = n
		}
	}
}

// WithMaxLength caps the number of decoded target pieces.
func WithMaxLength(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.maxLength = n
		}
	}
}

// WithLowercaseInput lowercases phrases before tokenizing, for models trained
// on lowercased text.
func WithLowercaseInput(enabled bool) Option {
	return func(t *Translator) {
		t.lowercase = enabled
	}
}

// NewTranslator creates a Translator. The vocabulary and scorer are loaded
// once by the caller and reused for every request.
func NewTranslator(vocab *Vocabulary, scorer Scorer, opts ...Option) *Translator {
	t := &Translator{
		vocab:     vocab,
		scorer:    scorer,
		beamWidth: DefaultBeamWidth,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranslateOffline implements salin.OfflineTranslator.
func (t *Translator) TranslateOffline(ctx context.Context, phrase string) (string, error) {
	if t.lowercase {
		phrase = strings.ToLower(phrase)
	}

	source, err := t.vocab.Encode(phrase)
	if err != nil {
		return "", &salin.DecodeError{Stage: "tokenize", Cause: err}
	}

	pieces, err := BeamSearch(ctx, t.scorer, source, t.beamWidth, t.maxLength)
	if err != nil {
		return "", &salin.DecodeError{Stage: "decode", Cause: err}
	}

	out := Detokenize(pieces)
	if out == "" {
		return "", &salin.DecodeError{Stage: "detokenize", Cause: ErrEmptyOutput}
	}

	return out, nil
}

var _ salin.OfflineTranslator = (*Translator)(nil)
