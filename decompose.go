package salin

import (
	"context"
	"strings"
)

// Decomposer resolves a phrase word by word from the translation memory and
// asks the remote backend to smooth the draft into a fluent sentence.
type Decomposer struct {
	memory      Memory
	remote      RemoteTranslator
	prober      Prober
	maxExamples int
	sourceLang  string
	targetLang  string
	logger      Logger
}

// DecomposerOption is a functional option for configuring the Decomposer.
type DecomposerOption func(*Decomposer)

// WithRepairProber skips the repair call when the prober reports offline.
func WithRepairProber(p Prober) DecomposerOption {
	return func(d *Decomposer) {
		d.prober = p
	}
}

// WithRepairExamples caps the few-shot examples sent with a repair request.
func WithRepairExamples(n int) DecomposerOption {
	return func(d *Decomposer) {
		d.maxExamples = n
	}
}

// WithRepairLanguages sets the language pair declared in repair requests.
func WithRepairLanguages(source, target string) DecomposerOption {
	return func(d *Decomposer) {
		d.sourceLang = source
		d.targetLang = target
	}
}

// WithRepairLogger sets the logger used to report degraded repairs.
func WithRepairLogger(l Logger) DecomposerOption {
	return func(d *Decomposer) {
		d.logger = l
	}
}

// NewDecomposer creates a Decomposer. remote may be nil, in which case the
// naive composition is always returned unrepaired.
func NewDecomposer(memory Memory, remote RemoteTranslator, opts ...DecomposerOption) *Decomposer {
	d := &Decomposer{
		memory:     memory,
		remote:     remote,
		sourceLang: DefaultSourceLang,
		targetLang: DefaultTargetLang,
		logger:     nopLogger{},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = nopLogger{}
	}

	return d
}

// Compose returns the naive word-by-word translation of phrase: each token's
// memory value joined with single spaces, in token order. It reports false
// when any token is missing from memory.
func (d *Decomposer) Compose(phrase string) (string, bool) {
	tokens := Tokens(phrase)
	if len(tokens) == 0 {
		return "", false
	}

	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		translation, ok := d.memory.Lookup(tok)
		if !ok {
			return "", false
		}
		parts[i] = translation
	}

	return strings.Join(parts, " "), true
}

// TryDecompose composes phrase from memory and repairs the draft through the
// remote backend. Repair failure of any kind, including being offline,
// degrades to the raw composition.
func (d *Decomposer) TryDecompose(ctx context.Context, phrase string) (string, bool) {
	draft, ok := d.Compose(phrase)
	if !ok {
		return "", false
	}

	if d.remote == nil {
		return draft, true
	}

	if d.prober != nil && !d.prober.IsOnline(ctx) {
		d.logger.Infof("offline, keeping word-by-word draft for %q", Normalize(phrase))
		return draft, true
	}

	repaired, err := d.remote.Translate(ctx, RemoteRequest{
		Phrase:      draft,
		Examples:    SelectExamples(d.memory.Snapshot(), phrase, d.maxExamples),
		Reconstruct: true,
		SourceLang:  d.sourceLang,
		TargetLang:  d.targetLang,
	})
	if err != nil {
		d.logger.Warnf("repair failed for %q, keeping draft: %v", Normalize(phrase), err)
		return draft, true
	}

	repaired = strings.TrimSpace(repaired)
	if repaired == "" {
		return draft, true
	}

	return repaired, true
}
