// Package offline implements the local neural translation route: subword
// tokenization, beam search over a sequence model and detokenization.
package offline

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Special pieces.
const (
	WordBoundary = "▁"
	UnknownPiece = "<unk>"
	StartPiece   = "<s>"
	EOS          = "</s>"
)

// Vocabulary is a unigram subword model read from a SentencePiece .vocab
// file. It is immutable after loading and safe for concurrent use.
type Vocabulary struct {
	scores   map[string]float64
	maxRunes int
	unkScore float64
}

// LoadVocabulary reads a .vocab file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path) // #nosec G304 - path is operator configured
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary: %w", err)
	}
	defer f.Close()

	return ParseVocabulary(f)
}

// ParseVocabulary reads "piece<TAB>score" lines. Lines without a score get 0.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{scores: make(map[string]float64)}
	minScore := 0.0

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		piece, rawScore, _ := strings.Cut(text, "\t")
		score := 0.0
		if rawScore != "" {
			s, err := strconv.ParseFloat(strings.TrimSpace(rawScore), 64)
			if err != nil {
				return nil, fmt.Errorf("vocabulary line %d: bad score %q", line, rawScore)
			}
			score = s
		}

		v.scores[piece] = score
		if score < minScore {
			minScore = score
		}
		if n := utf8.RuneCountInString(piece); n > v.maxRunes && !isControlPiece(piece) {
			v.maxRunes = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}

	if len(v.scores) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	v.unkScore = minScore - 10
	return v, nil
}

// Size returns the number of pieces.
func (v *Vocabulary) Size() int {
	return len(v.scores)
}

// Contains reports whether piece is in the vocabulary.
func (v *Vocabulary) Contains(piece string) bool {
	_, ok := v.scores[piece]
	return ok
}

// Encode segments text into the highest scoring piece sequence. Words are
// marked with a leading WordBoundary. Characters no piece covers become
// UnknownPiece.
func (v *Vocabulary) Encode(text string) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("nothing to encode")
	}

	runes := []rune(WordBoundary + strings.Join(words, WordBoundary))
	n := len(runes)

	best := make([]float64, n+1)
	back := make([]int, n+1)
	unk := make([]bool, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
	}

	for end := 1; end <= n; end++ {
		start := end - v.maxRunes
		if start < 0 {
			start = 0
		}
		for s := start; s < end; s++ {
			if math.IsInf(best[s], -1) {
				continue
			}
			score, ok := v.scores[string(runes[s:end])]
			if !ok || isControlPiece(string(runes[s:end])) {
				continue
			}
			if total := best[s] + score; total > best[end] {
				best[end] = total
				back[end] = s
				unk[end] = false
			}
		}

		// A single uncovered character falls back to <unk>.
		if math.IsInf(best[end], -1) && !math.IsInf(best[end-1], -1) {
			best[end] = best[end-1] + v.unkScore
			back[end] = end - 1
			unk[end] = true
		}
	}

	var pieces []string
	for end := n; end > 0; end = back[end] {
		if unk[end] {
			pieces = append(pieces, UnknownPiece)
		} else {
			pieces = append(pieces, string(runes[back[end]:end]))
		}
	}

	for i, j := 0, len(pieces)-1; i < j; i, j = i+1, j-1 {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	}

	return pieces, nil
}

func isControlPiece(piece string) bool {
	switch piece {
	case UnknownPiece, StartPiece, EOS, "<pad>":
		return true
	}
	return false
}

// Detokenize joins pieces, turns word boundaries into spaces and trims.
// Control pieces are dropped.
func Detokenize(pieces []string) string {
	var b strings.Builder
	for _, p := range pieces {
		if isControlPiece(p) {
			continue
		}
		b.WriteString(p)
	}
	return strings.TrimSpace(strings.ReplaceAll(b.String(), WordBoundary, " "))
}
