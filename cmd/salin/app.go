package main

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/cache"
	"github.com/ZaguanLabs/salin/config"
	"github.com/ZaguanLabs/salin/internal/logger"
	"github.com/ZaguanLabs/salin/journal"
	"github.com/ZaguanLabs/salin/offline"
	"github.com/ZaguanLabs/salin/probe"
	"github.com/ZaguanLabs/salin/provider"
)

// app is a fully wired resolver plus everything that must be closed with it.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	memory   *cache.Memory
	journal  *journal.SQLiteJournal
	resolver *salin.Resolver
	closers  []func() error
}

// routeOverride pins connectivity instead of probing.
type routeOverride int

const (
	routeProbe routeOverride = iota
	routeOnline
	routeOffline
)

func (g *globals) newLogger() (*logger.Logger, error) {
	log, err := logger.FromEnv()
	if err != nil {
		return nil, err
	}
	if g.verbose {
		log.SetDebug(true)
	}
	return log, nil
}

// openMemoryOnly loads configuration and the translation memory without
// building any translation backend.
func (g *globals) openMemoryOnly() (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	log, err := g.newLogger()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, closers: []func() error{log.Close}}
	mem, closer, err := openMemory(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.memory = mem
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// openApp builds the complete resolver from configuration.
func (g *globals) openApp(ctx context.Context, route routeOverride) (*app, error) {
	a, err := g.openMemoryOnly()
	if err != nil {
		return nil, err
	}
	cfg, log := a.cfg, a.log

	opts := []salin.ResolverOption{
		salin.WithLogger(log),
		salin.WithLanguages(cfg.Language.Source, cfg.Language.Target),
		salin.WithMaxExamples(cfg.Remote.MaxExamples),
		salin.WithDecomposition(cfg.Resolver.Decompose),
		salin.WithDecomposedPolicy(salin.DecomposedPolicy(cfg.Resolver.DecomposedPolicy)),
		salin.WithRequestTimeout(cfg.Resolver.RequestTimeout),
	}

	remote, err := openRemote(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	if remote != nil {
		opts = append(opts, salin.WithRemote(remote))
	}

	if cfg.OfflineEnabled() {
		tr, closer, err := openOffline(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, closer)
		opts = append(opts, salin.WithOffline(tr))
	}

	switch route {
	case routeOnline:
		opts = append(opts, salin.WithProber(probe.Static(true)))
	case routeOffline:
		opts = append(opts, salin.WithProber(probe.Static(false)))
	default:
		opts = append(opts, salin.WithProber(probe.NewTCPProber(cfg.Probe.Address, cfg.Probe.Timeout)))
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.journal = j
		a.closers = append(a.closers, j.Close)
		opts = append(opts, salin.WithJournal(j))
	}

	a.resolver = salin.NewResolver(a.memory, opts...)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warnf("close: %v", err)
		}
	}
	a.closers = nil
}

func openMemory(cfg *config.Config, log *logger.Logger) (*cache.Memory, func() error, error) {
	var (
		store  cache.Store
		closer func() error
	)

	switch cfg.Memory.Backend {
	case "bolt":
		s, err := cache.OpenBoltStore(cfg.Memory.BoltPath, cache.BoltOptions{})
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s.Close
	case "redis":
		s, err := cache.NewRedisStore(cache.RedisConfig{
			URL: cfg.Memory.RedisURL,
			Key: cfg.Memory.RedisKey,
		})
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s.Close
	default:
		store = cache.NewFileStore(cfg.Memory.Path)
	}

	opts := []cache.Option{cache.WithLogger(log)}
	if cfg.Memory.RecoverMalformed {
		opts = append(opts, cache.WithRecoverMalformed())
	}

	mem, err := cache.Open(store, opts...)
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, nil, err
	}
	log.Debugf("memory: %d entries from %s backend", mem.Len(), cfg.Memory.Backend)
	return mem, closer, nil
}

// openRemote returns nil when no provider is configured or no API key is
// available; the remote tier then answers with ErrNoRoute.
func openRemote(ctx context.Context, cfg *config.Config, log *logger.Logger) (salin.RemoteTranslator, error) {
	if cfg.Remote.Provider == "none" || cfg.Remote.Provider == "" {
		return nil, nil
	}

	key := cfg.RemoteAPIKey()
	if key == "" {
		log.Warnf("no API key for %s; remote tier disabled", cfg.Remote.Provider)
		return nil, nil
	}

	var remote salin.RemoteTranslator
	switch cfg.Remote.Provider {
	case "gemini":
		p, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
			APIKey:  key,
			Model:   cfg.RemoteModel(),
			BaseURL: cfg.Remote.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		remote = p
	default:
		remote = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  key,
			Model:   cfg.RemoteModel(),
			BaseURL: cfg.Remote.BaseURL,
		})
	}

	if cfg.Remote.RequestsPerMinute > 0 {
		remote = salin.NewRateLimitedRemote(remote, salin.RateLimitConfig{
			RequestsPerMinute: cfg.Remote.RequestsPerMinute,
		})
	}

	return provider.NewBreakerProvider(remote, provider.BreakerConfig{
		Name:             cfg.Remote.Provider,
		FailureThreshold: cfg.Remote.BreakerFailures,
		Cooldown:         cfg.Remote.BreakerCooldown,
		OnStateChange: func(name, from, to string) {
			log.Warnf("breaker %s: %s -> %s", name, from, to)
		},
	}), nil
}

func openOffline(cfg *config.Config) (*offline.Translator, func() error, error) {
	vocab, err := offline.LoadVocabulary(cfg.Offline.Vocab)
	if err != nil {
		return nil, nil, err
	}

	scorer, err := offline.StartProcessScorer(cfg.Offline.Worker[0], cfg.Offline.Worker[1:]...)
	if err != nil {
		return nil, nil, err
	}

	tr := offline.NewTranslator(vocab, scorer,
		offline.WithBeamWidth(cfg.Offline.BeamWidth),
		offline.WithMaxLength(cfg.Offline.MaxLength),
	)
	return tr, scorer.Close, nil
}
