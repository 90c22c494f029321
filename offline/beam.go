package offline

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Candidate is one possible next target piece.
type Candidate struct {
	Piece   string  `json:"piece"`
	LogProb float64 `json:"logprob"`
}

// Scorer is the sequence model: given the source pieces and the target
// prefix so far, it returns up to k next-piece candidates.
type Scorer interface {
	Next(ctx context.Context, source, prefix []string, k int) ([]Candidate, error)
}

type hypothesis struct {
	pieces []string
	score  float64
	done   bool
}

func (h hypothesis) key() string {
	return strings.Join(h.pieces, " ")
}

// BeamSearch decodes the best target piece sequence for source. It keeps
// width hypotheses per step, finishes a hypothesis on EOS and stops when all
// are finished or maxLen pieces were produced. Equal scores are ordered by
// piece string so the result is deterministic. Width 1 is greedy decoding.
func BeamSearch(ctx context.Context, scorer Scorer, source []string, width, maxLen int) ([]string, error) {
	if width < 1 {
		width = 1
	}
	if maxLen < 1 {
		return nil, fmt.Errorf("max length must be positive")
	}

	beam := []hypothesis{{}}

	for step := 0; step < maxLen; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []hypothesis
		open := 0
		for _, h := range beam {
			if h.done {
				next = append(next, h)
				continue
			}
			open++

			cands, err := scorer.Next(ctx, source, h.pieces, width)
			if err != nil {
				return nil, err
			}
			for _, c := range cands {
				pieces := make([]string, len(h.pieces), len(h.pieces)+1)
				copy(pieces, h.pieces)
				next = append(next, hypothesis{
					pieces: append(pieces, c.Piece),
					score:  h.score + c.LogProb,
					done:   c.Piece == EOS,
				})
			}
		}

		if open == 0 {
			break
		}
		if len(next) == 0 {
			return nil, fmt.Errorf("model returned no candidates at step %d", step)
		}

		sort.SliceStable(next, func(i, j int) bool {
			if next[i].score != next[j].score {
				return next[i].score > next[j].score
			}
			return next[i].key() < next[j].key()
		})
		if len(next) > width {
			next = next[:width]
		}
		beam = next
	}

	best := beam[0].pieces
	if n := len(best); n > 0 && best[n-1] == EOS {
		best = best[:n-1]
	}
	return best, nil
}
