package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/cache"
	"github.com/ZaguanLabs/salin/provider"
)

func newResolver(t *testing.T) *salin.Resolver {
	t.Helper()
	mem, err := cache.Open(cache.NewFileStore(filepath.Join(t.TempDir(), "memory.json")))
	if err != nil {
		t.Fatal(err)
	}
	mem.Insert("maayad", "good")
	return salin.NewResolver(mem, salin.WithRemote(provider.NewMockProvider()))
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestTranslateHandler(t *testing.T) {
	h := TranslateHandler(newResolver(t))

	res, err := h(context.Background(), call(map[string]any{"phrase": "ulan"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", text(t, res))
	}
	if got := text(t, res); !strings.HasPrefix(got, "rain") || !strings.Contains(got, "remote") {
		t.Errorf("unexpected result %q", got)
	}
}

func TestTranslateHandler_MissingPhrase(t *testing.T) {
	h := TranslateHandler(newResolver(t))

	res, err := h(context.Background(), call(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing phrase")
	}
}

func TestLookupHandler(t *testing.T) {
	r := newResolver(t)
	h := LookupHandler(r.Memory())

	res, _ := h(context.Background(), call(map[string]any{"phrase": "MAAYAD"}))
	if got := text(t, res); got != "good" {
		t.Errorf("expected 'good', got %q", got)
	}

	res, _ = h(context.Background(), call(map[string]any{"phrase": "gabi"}))
	if got := text(t, res); !strings.Contains(got, "not in the translation memory") {
		t.Errorf("unexpected miss message %q", got)
	}
}

func TestNew(t *testing.T) {
	if New(newResolver(t)) == nil {
		t.Fatal("expected server")
	}
}
