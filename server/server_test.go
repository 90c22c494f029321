package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/cache"
	"github.com/ZaguanLabs/salin/probe"
	"github.com/ZaguanLabs/salin/provider"
)

func setupServer(t *testing.T, opts Options, resolverOpts ...salin.ResolverOption) (*Server, *cache.Memory) {
	t.Helper()

	mem, err := cache.Open(cache.NewFileStore(filepath.Join(t.TempDir(), "memory.json")))
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.Insert("maayad", "good"); err != nil {
		t.Fatal(err)
	}

	base := []salin.ResolverOption{
		salin.WithRemote(provider.NewMockProvider()),
		salin.WithProber(probe.Static(true)),
	}
	r := salin.NewResolver(mem, append(base, resolverOpts...)...)
	return New(r, opts), mem
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestRoot(t *testing.T) {
	s, _ := setupServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Hello":"World"`) {
		t.Errorf("unexpected root response %d %s", rec.Code, rec.Body.String())
	}
}

func TestTranslate(t *testing.T) {
	s, mem := setupServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/translate/ata?message=bayaw", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp translateResponse
	decode(t, rec, &resp)
	if resp.Translation != "brother-in-law" || resp.Tier != salin.TierRemote || !resp.Persisted {
		t.Errorf("unexpected response %+v", resp)
	}

	if v, _ := mem.Lookup("bayaw"); v != "brother-in-law" {
		t.Errorf("expected remote answer remembered, got %q", v)
	}
}

func TestTranslate_CacheHit(t *testing.T) {
	s, _ := setupServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/translate/ata?message=MAAYAD", nil))

	var resp translateResponse
	decode(t, rec, &resp)
	if resp.Tier != salin.TierCache || resp.Translation != "good" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestTranslate_EmptyMessage(t *testing.T) {
	s, _ := setupServer(t, Options{})

	for _, target := range []string{"/translate/ata", "/translate/ata?message=%20%20"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestTranslate_NoRoute(t *testing.T) {
	s, _ := setupServer(t, Options{}, salin.WithProber(probe.Static(false)))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/translate/ata?message=bayaw", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without an offline engine, got %d", rec.Code)
	}
}

func TestTranslateHTML(t *testing.T) {
	s, _ := setupServer(t, Options{})

	body := strings.NewReader(`<p>Maayad</p><p>ulan</p>`)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/translate/html", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp htmlResponse
	decode(t, rec, &resp)
	if !strings.Contains(resp.HTML, "<p>good</p><p>rain</p>") {
		t.Errorf("unexpected html %s", resp.HTML)
	}
	if resp.Segments != 2 || resp.ByTier[salin.TierCache] != 1 || resp.ByTier[salin.TierRemote] != 1 {
		t.Errorf("unexpected report %+v", resp)
	}
}

func TestMemoryLookupAndInsert(t *testing.T) {
	s, _ := setupServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/memory/lookup?phrase=gabi", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/memory",
		strings.NewReader(`{"phrase": " Gabi ", "translation": "night"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/memory/lookup?phrase=GABI", nil))
	var entry memoryEntry
	decode(t, rec, &entry)
	if entry.Phrase != "gabi" || entry.Translation != "night" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestMemoryInsert_Invalid(t *testing.T) {
	s, _ := setupServer(t, Options{})

	for _, body := range []string{`not json`, `{"phrase": "gabi"}`, `{"phrase": "gabi", "translation": "night\u0007"}`} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/memory", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp healthResponse
	decode(t, rec, &resp)
	if resp.Status != "ok" || !resp.Online || resp.Version == "" {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestCORS(t *testing.T) {
	s, _ := setupServer(t, Options{AllowedOrigins: []string{"https://ata.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/translate/ata", nil)
	req.Header.Set("Origin", "https://ata.example")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://ata.example" {
		t.Errorf("missing allow-origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected allow-origin for unknown origin")
	}
}

// failingStore accepts loads and rejects every save.
type failingStore struct{}

func (failingStore) Load() (map[string]string, error) { return nil, nil }
func (failingStore) Save(map[string]string) error     { return errors.New("read-only filesystem") }

func TestMemoryInsert_StoreFailure(t *testing.T) {
	mem, err := cache.Open(failingStore{})
	if err != nil {
		t.Fatal(err)
	}
	s := New(salin.NewResolver(mem), Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/memory",
		strings.NewReader(`{"phrase": "gabi", "translation": "night"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
