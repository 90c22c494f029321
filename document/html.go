// Package document translates the text of HTML documents phrase by phrase
// through a salin resolver.
package document

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/salin"
	"golang.org/x/net/html"
)

// IgnoredTags contains HTML tags whose content is never translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// BatchResolver resolves many phrases at once, preserving order.
type BatchResolver interface {
	ResolveBatch(ctx context.Context, phrases []string, workers int) []salin.BatchItem
}

// Segment is one translatable text run found in a document.
type Segment struct {
	Text      string // Trimmed source text
	ParentTag string // Enclosing element
}

// Report summarizes a document translation.
type Report struct {
	Segments int                // Unique text segments found
	ByTier   map[salin.Tier]int // Segments answered per tier
	Failed   []string           // Segments left untranslated
}

// HTMLTranslator rewrites the text nodes of an HTML document.
type HTMLTranslator struct {
	resolver    BatchResolver
	ignoredTags map[string]bool
	workers     int
}

// Option configures an HTMLTranslator.
type Option func(*HTMLTranslator)

// WithIgnoredTags replaces the default ignored tags.
func WithIgnoredTags(tags []string) Option {
	return func(t *HTMLTranslator) {
		ignored := make(map[string]bool)
		for _, tag := range tags {
			ignored[strings.ToLower(tag)] = true
		}
		t.ignoredTags = ignored
	}
}

// WithWorkers sets the number of concurrent resolutions.
func WithWorkers(n int) Option {
	return func(t *HTMLTranslator) {
		t.workers = n
	}
}

// NewHTMLTranslator creates a translator over resolver.
func NewHTMLTranslator(resolver BatchResolver, opts ...Option) *HTMLTranslator {
	t := &HTMLTranslator{
		resolver:    resolver,
		ignoredTags: IgnoredTags,
		workers:     salin.DefaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Extract returns the unique translatable segments of content in document
// order. Segments are deduplicated by their normalized text.
func (t *HTMLTranslator) Extract(content string) ([]Segment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return t.segments(doc), nil
}

func (t *HTMLTranslator) segments(doc *goquery.Document) []Segment {
	var out []Segment
	seen := make(map[string]bool)

	t.walk(doc, func(n *html.Node) {
		trimmed := strings.TrimSpace(n.Data)
		key := salin.Normalize(trimmed)
		if seen[key] {
			return
		}
		seen[key] = true

		seg := Segment{Text: trimmed}
		if n.Parent != nil {
			seg.ParentTag = n.Parent.Data
		}
		out = append(out, seg)
	})

	return out
}

// Translate resolves every text segment and writes the translations back,
// keeping surrounding whitespace. A segment that fails to resolve keeps its
// source text and is listed in the report.
func (t *HTMLTranslator) Translate(ctx context.Context, content string) (string, *Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", nil, err
	}

	segs := t.segments(doc)
	phrases := make([]string, len(segs))
	for i, s := range segs {
		phrases[i] = s.Text
	}

	report := &Report{Segments: len(segs), ByTier: make(map[salin.Tier]int)}
	translations := make(map[string]string, len(segs))

	for _, item := range t.resolver.ResolveBatch(ctx, phrases, t.workers) {
		if item.Err != nil || item.Result == nil {
			report.Failed = append(report.Failed, item.Phrase)
			continue
		}
		report.ByTier[item.Result.Tier]++
		translations[salin.Normalize(item.Phrase)] = item.Result.Translation
	}

	t.walk(doc, func(n *html.Node) {
		if translated, ok := translations[salin.Normalize(n.Data)]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	out, err := doc.Html()
	if err != nil {
		return "", nil, err
	}
	return out, report, nil
}

// walk calls fn for every non-blank text node outside ignored elements.
func (t *HTMLTranslator) walk(doc *goquery.Document, fn func(*html.Node)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if t.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" || (attr.Key == "translate" && attr.Val == "no") {
					return
				}
			}
		}

		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			fn(n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	for _, n := range doc.Nodes {
		visit(n)
	}
}

// preserveWhitespace keeps the original leading and trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))

	return original[:leadingLen] + translated + original[len(original)-trailingLen:]
}
