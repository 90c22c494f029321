package salin

import (
	"context"
	"strings"
	"time"
)

// Memory is the translation memory contract consumed by the resolver.
type Memory interface {
	// Lookup returns the stored translation for the normalized phrase.
	Lookup(phrase string) (string, bool)

	// Insert stores a translation under the normalized phrase and persists
	// the whole memory before returning.
	Insert(phrase, translation string) error

	// Snapshot returns a copy of every entry.
	Snapshot() map[string]string
}

// RemoteTranslator is the interface for hosted generative translation backends.
type RemoteTranslator interface {
	Translate(ctx context.Context, req RemoteRequest) (string, error)
}

// RemoteTranslatorFunc adapts a function to the RemoteTranslator interface.
type RemoteTranslatorFunc func(ctx context.Context, req RemoteRequest) (string, error)

// Translate calls f(ctx, req).
func (f RemoteTranslatorFunc) Translate(ctx context.Context, req RemoteRequest) (string, error) {
	return f(ctx, req)
}

// OfflineTranslator is the interface for the local neural translation engine.
type OfflineTranslator interface {
	TranslateOffline(ctx context.Context, phrase string) (string, error)
}

// Prober reports general network reachability.
type Prober interface {
	IsOnline(ctx context.Context) bool
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) bool

// IsOnline calls f(ctx).
func (f ProberFunc) IsOnline(ctx context.Context) bool {
	return f(ctx)
}

// Journal records the outcome of each resolution.
type Journal interface {
	Record(ev Event) error
}

// Event is one journal record.
type Event struct {
	Phrase    string
	Tier      Tier
	Persisted bool
	Err       string // Empty on success
	Elapsed   time.Duration
	At        time.Time
}

// Logger is the leveled logging contract used throughout salin.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Resolver is the resolution orchestrator. It is safe for concurrent use as
// long as its collaborators are.
type Resolver struct {
	memory           Memory
	remote           RemoteTranslator
	offline          OfflineTranslator
	prober           Prober
	journal          Journal
	logger           Logger
	sourceLang       string
	targetLang       string
	maxExamples      int
	decompose        bool
	decomposedPolicy DecomposedPolicy
	requestTimeout   time.Duration
	decomposer       *Decomposer
}

// ResolverOption is a functional option for configuring the Resolver.
type ResolverOption func(*Resolver)

// WithRemote sets the remote generative translation backend.
func WithRemote(remote RemoteTranslator) ResolverOption {
	return func(r *Resolver) {
		r.remote = remote
	}
}

// WithOffline sets the local neural translation engine.
func WithOffline(offline OfflineTranslator) ResolverOption {
	return func(r *Resolver) {
		r.offline = offline
	}
}

// WithProber sets the connectivity check used for routing.
// Without a prober every request is routed as online.
func WithProber(p Prober) ResolverOption {
	return func(r *Resolver) {
		r.prober = p
	}
}

// WithJournal records every resolution outcome.
func WithJournal(j Journal) ResolverOption {
	return func(r *Resolver) {
		r.journal = j
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithLanguages sets the source and target language codes.
func WithLanguages(source, target string) ResolverOption {
	return func(r *Resolver) {
		r.sourceLang = source
		r.targetLang = target
	}
}

// WithMaxExamples caps the few-shot examples sent to the remote backend.
// Zero or negative embeds the whole memory.
func WithMaxExamples(n int) ResolverOption {
	return func(r *Resolver) {
		r.maxExamples = n
	}
}

// WithDecomposition enables or disables the decomposition tier.
func WithDecomposition(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.decompose = enabled
	}
}

// WithDecomposedPolicy controls whether decomposed answers are stored.
func WithDecomposedPolicy(p DecomposedPolicy) ResolverOption {
	return func(r *Resolver) {
		r.decomposedPolicy = p
	}
}

// WithRequestTimeout bounds the total time spent on one request.
func WithRequestTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.requestTimeout = d
	}
}

// NewResolver creates a Resolver over the given memory.
func NewResolver(memory Memory, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		memory:           memory,
		logger:           nopLogger{},
		sourceLang:       DefaultSourceLang,
		targetLang:       DefaultTargetLang,
		decompose:        true,
		decomposedPolicy: DecomposedPersist,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.decomposer = NewDecomposer(memory, r.remote,
		WithRepairProber(r.prober),
		WithRepairExamples(r.maxExamples),
		WithRepairLanguages(r.sourceLang, r.targetLang),
		WithRepairLogger(r.logger),
	)

	return r
}

// Resolve translates one phrase, walking the tiers in order:
// cache lookup, decomposition, route decision, remote or offline, persist.
func (r *Resolver) Resolve(ctx context.Context, phrase string) (*Result, error) {
	if strings.TrimSpace(phrase) == "" {
		return nil, ErrEmptyPhrase
	}

	if r.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	result, tier, err := r.resolve(ctx, phrase)
	elapsed := time.Since(start)

	ev := Event{Phrase: Normalize(phrase), Tier: tier, Elapsed: elapsed, At: start}
	if err != nil {
		ev.Err = err.Error()
	} else {
		result.Elapsed = elapsed
		ev.Persisted = result.Persisted
	}
	r.record(ev)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, phrase string) (*Result, Tier, error) {
	if translation, ok := r.memory.Lookup(phrase); ok {
		return &Result{
			Phrase:      phrase,
			Translation: translation,
			Tier:        TierCache,
			Persisted:   true,
		}, TierCache, nil
	}

	if r.decompose {
		if translation, ok := r.decomposer.TryDecompose(ctx, phrase); ok {
			result := &Result{
				Phrase:      phrase,
				Translation: translation,
				Tier:        TierDecomposed,
			}
			if r.decomposedPolicy != DecomposedSkip {
				result.Persisted = r.persist(phrase, translation)
			}
			return result, TierDecomposed, nil
		}
	}

	route := r.Route(ctx)
	translation, err := route.Translate(ctx, phrase)
	if err != nil {
		return nil, route.Tier(), &ResolutionError{Phrase: phrase, Tier: route.Tier(), Cause: err}
	}

	return &Result{
		Phrase:      phrase,
		Translation: translation,
		Tier:        route.Tier(),
		Persisted:   r.persist(phrase, translation),
	}, route.Tier(), nil
}

// persist stores a translation and reports whether it reached durable
// storage. Failures are logged and never fail the request.
func (r *Resolver) persist(phrase, translation string) bool {
	if err := r.memory.Insert(phrase, translation); err != nil {
		r.logger.Warnf("not remembering %q: %v", Normalize(phrase), err)
		return false
	}
	return true
}

func (r *Resolver) record(ev Event) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(ev); err != nil {
		r.logger.Warnf("journal write failed: %v", err)
	}
}

// Online reports the current connectivity as seen by the configured prober.
func (r *Resolver) Online(ctx context.Context) bool {
	if r.prober == nil {
		return true
	}
	return r.prober.IsOnline(ctx)
}

// Memory returns the translation memory the resolver reads and writes.
func (r *Resolver) Memory() Memory {
	return r.memory
}

// SourceLang returns the source language code.
func (r *Resolver) SourceLang() string {
	return r.sourceLang
}

// TargetLang returns the target language code.
func (r *Resolver) TargetLang() string {
	return r.targetLang
}
