package salin

import "sort"

// SelectExamples turns a memory snapshot into few-shot examples for a
// remote request. With k <= 0 every entry is returned, ordered by key.
// With k > 0 the k entries sharing the most tokens with phrase are kept;
// ties are broken by key.
func SelectExamples(snapshot map[string]string, phrase string, k int) []Example {
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if k > 0 && k < len(keys) {
		want := make(map[string]bool)
		for _, tok := range Tokens(Normalize(phrase)) {
			want[tok] = true
		}

		scores := make(map[string]int, len(keys))
		for _, key := range keys {
			for _, tok := range Tokens(key) {
				if want[tok] {
					scores[key]++
				}
			}
		}

		sort.SliceStable(keys, func(i, j int) bool {
			return scores[keys[i]] > scores[keys[j]]
		})
		keys = keys[:k]
	}

	examples := make([]Example, len(keys))
	for i, key := range keys {
		examples[i] = Example{Source: key, Target: snapshot[key]}
	}
	return examples
}
