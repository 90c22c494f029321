package offline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// tableScorer returns scripted candidates keyed by the joined prefix.
type tableScorer struct {
	table map[string][]Candidate
	calls int
	err   error
}

func (s *tableScorer) Next(ctx context.Context, source, prefix []string, k int) ([]Candidate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	cands := s.table[strings.Join(prefix, " ")]
	if len(cands) > k {
		cands = cands[:k]
	}
	return cands, nil
}

// A greedy first step picks "▁the" but the beam finds a better full path.
func gardenPath() *tableScorer {
	return &tableScorer{table: map[string][]Candidate{
		"": {
			{Piece: "▁the", LogProb: -0.5},
			{Piece: "▁good", LogProb: -0.7},
		},
		"▁the": {
			{Piece: "▁morning", LogProb: -3.0},
		},
		"▁the ▁morning": {
			{Piece: EOS, LogProb: -0.1},
		},
		"▁good": {
			{Piece: "▁morning", LogProb: -0.2},
		},
		"▁good ▁morning": {
			{Piece: EOS, LogProb: -0.1},
		},
	}}
}

func TestBeamSearch_FindsBestPath(t *testing.T) {
	got, err := BeamSearch(context.Background(), gardenPath(), []string{"▁maayad"}, 2, 10)
	if err != nil {
		t.Fatalf("BeamSearch failed: %v", err)
	}

	want := []string{"▁good", "▁morning"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BeamSearch = %v, want %v", got, want)
	}
}

func TestBeamSearch_GreedyWidthOne(t *testing.T) {
	got, err := BeamSearch(context.Background(), gardenPath(), nil, 1, 10)
	if err != nil {
		t.Fatalf("BeamSearch failed: %v", err)
	}

	want := []string{"▁the", "▁morning"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Greedy = %v, want %v", got, want)
	}
}

func TestBeamSearch_TiesBrokenByPiece(t *testing.T) {
	s := &tableScorer{table: map[string][]Candidate{
		"":   {{Piece: "▁z", LogProb: -1}, {Piece: "▁a", LogProb: -1}},
		"▁a": {{Piece: EOS, LogProb: 0}},
		"▁z": {{Piece: EOS, LogProb: 0}},
	}}

	for i := 0; i < 5; i++ {
		got, _ := BeamSearch(context.Background(), s, nil, 2, 5)
		if !reflect.DeepEqual(got, []string{"▁a"}) {
			t.Fatalf("run %d: expected deterministic tie break, got %v", i, got)
		}
	}
}

func TestBeamSearch_MaxLength(t *testing.T) {
	s := &tableScorer{table: map[string][]Candidate{
		"":        {{Piece: "▁la", LogProb: -1}},
		"▁la":     {{Piece: "▁la", LogProb: -1}},
		"▁la ▁la": {{Piece: "▁la", LogProb: -1}},
	}}

	got, err := BeamSearch(context.Background(), s, nil, 1, 3)
	if err != nil {
		t.Fatalf("BeamSearch failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 pieces at max length, got %v", got)
	}
}

func TestBeamSearch_Errors(t *testing.T) {
	s := &tableScorer{err: errors.New("model crashed")}
	if _, err := BeamSearch(context.Background(), s, nil, 2, 5); err == nil {
		t.Error("Expected scorer error")
	}

	empty := &tableScorer{table: map[string][]Candidate{}}
	if _, err := BeamSearch(context.Background(), empty, nil, 2, 5); err == nil {
		t.Error("Expected error when the model returns nothing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BeamSearch(ctx, gardenPath(), nil, 2, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
