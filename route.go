package salin

import "context"

// TranslationRoute is one of the two network-dependent tiers. The resolver
// picks exactly one route per request and never falls back to the other.
type TranslationRoute interface {
	Tier() Tier
	Translate(ctx context.Context, phrase string) (string, error)
}

// Route probes connectivity and returns the remote route when online and
// the offline route otherwise.
func (r *Resolver) Route(ctx context.Context) TranslationRoute {
	if r.Online(ctx) {
		return &remoteRoute{
			remote:      r.remote,
			memory:      r.memory,
			maxExamples: r.maxExamples,
			sourceLang:  r.sourceLang,
			targetLang:  r.targetLang,
		}
	}
	return &offlineRoute{offline: r.offline}
}

type remoteRoute struct {
	remote      RemoteTranslator
	memory      Memory
	maxExamples int
	sourceLang  string
	targetLang  string
}

func (rt *remoteRoute) Tier() Tier { return TierRemote }

func (rt *remoteRoute) Translate(ctx context.Context, phrase string) (string, error) {
	if rt.remote == nil {
		return "", ErrNoRoute
	}
	return rt.remote.Translate(ctx, RemoteRequest{
		Phrase:     phrase,
		Examples:   SelectExamples(rt.memory.Snapshot(), phrase, rt.maxExamples),
		SourceLang: rt.sourceLang,
		TargetLang: rt.targetLang,
	})
}

type offlineRoute struct {
	offline OfflineTranslator
}

func (rt *offlineRoute) Tier() Tier { return TierOffline }

func (rt *offlineRoute) Translate(ctx context.Context, phrase string) (string, error) {
	if rt.offline == nil {
		return "", ErrNoRoute
	}
	return rt.offline.TranslateOffline(ctx, phrase)
}
