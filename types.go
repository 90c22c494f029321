package salin

import "time"

// Tier identifies which resolution strategy produced a translation.
type Tier string

const (
	// TierCache is an exact match in the translation memory.
	TierCache Tier = "cache"
	// TierDecomposed is a word-by-word composition over memory entries.
	TierDecomposed Tier = "decomposed"
	// TierRemote is the hosted generative translation service.
	TierRemote Tier = "remote"
	// TierOffline is the local neural translation engine.
	TierOffline Tier = "offline"
)

// Tiers lists every tier in resolution order.
var Tiers = []Tier{TierCache, TierDecomposed, TierRemote, TierOffline}

// Result is the outcome of resolving one phrase.
type Result struct {
	Phrase      string        // Phrase as submitted by the caller
	Translation string        // Resolved target phrase
	Tier        Tier          // Tier that answered
	Persisted   bool          // Whether the answer is now in durable memory
	Elapsed     time.Duration // Wall time spent resolving
}

// Example is one source/target pair used as few-shot grounding.
type Example struct {
	Source string
	Target string
}

// RemoteRequest contains the parameters for a remote translation call.
type RemoteRequest struct {
	Phrase      string    // Literal user message
	Examples    []Example // Memory entries embedded in the system instruction
	Reconstruct bool      // Phrase is a word-by-word draft to be smoothed
	SourceLang  string    // Source language code (default: "atd")
	TargetLang  string    // Target language code (default: "en")
}

// DecomposedPolicy controls whether decomposed translations are remembered.
type DecomposedPolicy string

const (
	// DecomposedPersist stores decomposed answers under the full phrase.
	DecomposedPersist DecomposedPolicy = "persist"
	// DecomposedSkip returns decomposed answers without storing them.
	DecomposedSkip DecomposedPolicy = "skip"
)
