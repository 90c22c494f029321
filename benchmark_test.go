package salin_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/cache"
	"github.com/ZaguanLabs/salin/document"
	"github.com/ZaguanLabs/salin/offline"
	"github.com/ZaguanLabs/salin/probe"
	"github.com/ZaguanLabs/salin/provider"
)

// Benchmarks for performance validation

func benchMemory(b *testing.B, n int) *cache.Memory {
	b.Helper()
	mem, err := cache.Open(cache.NewFileStore(filepath.Join(b.TempDir(), "memory.json")))
	if err != nil {
		b.Fatal(err)
	}
	entries := make(map[string]string, n)
	for i := 0; i < n; i++ {
		entries[fmt.Sprintf("word%d", i)] = fmt.Sprintf("w%d", i)
	}
	if _, err := mem.Merge(entries); err != nil {
		b.Fatal(err)
	}
	return mem
}

func BenchmarkNormalize(b *testing.B) {
	phrase := "  Maayad   ha   MASALEM  kaniyo "
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		salin.Normalize(phrase)
	}
}

func BenchmarkMemory_Lookup(b *testing.B) {
	mem := benchMemory(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mem.Lookup("Word500")
	}
}

func BenchmarkSelectExamples(b *testing.B) {
	snapshot := benchMemory(b, 1000).Snapshot()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		salin.SelectExamples(snapshot, "word1 word2 word3", 20)
	}
}

func BenchmarkResolve_Cached(b *testing.B) {
	r := salin.NewResolver(benchMemory(b, 100))
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve(ctx, "word42")
	}
}

func BenchmarkResolve_Decomposed(b *testing.B) {
	r := salin.NewResolver(benchMemory(b, 100), salin.WithDecomposedPolicy(salin.DecomposedSkip))
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve(ctx, "word1 word2 word3 word4")
	}
}

func BenchmarkPrompt_Build(b *testing.B) {
	examples := salin.SelectExamples(benchMemory(b, 500).Snapshot(), "", 0)
	req := salin.RemoteRequest{Phrase: "maayad", Examples: examples, SourceLang: "atd", TargetLang: "en"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		provider.BuildSystemPrompt(req)
	}
}

func BenchmarkVocabulary_Encode(b *testing.B) {
	vocab, err := offline.ParseVocabulary(strings.NewReader("▁\t-5\n▁ma\t-2\nayad\t-2\n▁ha\t-1\n▁masalem\t-1\na\t-4\nm\t-4\n"))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vocab.Encode("maayad ha masalem")
	}
}

func BenchmarkHTMLTranslator_Medium(b *testing.B) {
	r := salin.NewResolver(benchMemory(b, 100),
		salin.WithRemote(provider.NewMockProvider()),
		salin.WithProber(probe.Static(true)),
		salin.WithDecomposedPolicy(salin.DecomposedSkip),
	)
	tr := document.NewHTMLTranslator(r)

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "<p>word%d word%d</p>", i, i+1)
	}
	sb.WriteString("</body></html>")
	html := sb.String()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Translate(ctx, html)
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		salin.GetLanguageName("atd")
	}
}
