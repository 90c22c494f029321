package salin

import (
	"context"
	"sync"
)

// BatchItem is the outcome for one phrase of a batch.
type BatchItem struct {
	Index  int
	Phrase string
	Result *Result
	Err    error
}

// DefaultBatchWorkers is the worker count used when ResolveBatch gets n <= 0.
const DefaultBatchWorkers = 4

// ResolveBatch resolves phrases with up to workers concurrent requests.
// Items come back in input order. Memory writes stay serialized by the
// memory itself, so concurrent resolution is safe.
func (r *Resolver) ResolveBatch(ctx context.Context, phrases []string, workers int) []BatchItem {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	if workers > len(phrases) {
		workers = len(phrases)
	}

	items := make([]BatchItem, len(phrases))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := r.Resolve(ctx, phrases[i])
				items[i] = BatchItem{Index: i, Phrase: phrases[i], Result: result, Err: err}
			}
		}()
	}

	for i := range phrases {
		select {
		case jobs <- i:
		case <-ctx.Done():
			items[i] = BatchItem{Index: i, Phrase: phrases[i], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return items
}

// BatchStats counts batch outcomes by tier.
type BatchStats struct {
	ByTier map[Tier]int
	Failed int
}

// SummarizeBatch tallies a batch result.
func SummarizeBatch(items []BatchItem) BatchStats {
	stats := BatchStats{ByTier: make(map[Tier]int)}
	for _, item := range items {
		if item.Err != nil || item.Result == nil {
			stats.Failed++
			continue
		}
		stats.ByTier[item.Result.Tier]++
	}
	return stats
}
