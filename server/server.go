// Package server exposes the resolver over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/salin"
	"github.com/ZaguanLabs/salin/document"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Resolver is the part of salin.Resolver the server needs.
type Resolver interface {
	Resolve(ctx context.Context, phrase string) (*salin.Result, error)
	ResolveBatch(ctx context.Context, phrases []string, workers int) []salin.BatchItem
	Online(ctx context.Context) bool
	Memory() salin.Memory
}

// Options configures the server.
type Options struct {
	Listen         string   // Address to listen on (default: ":8080")
	AllowedOrigins []string // CORS origins; "*" allows any
	Logger         salin.Logger
}

// Server is the HTTP API.
type Server struct {
	opts     Options
	resolver Resolver
	html     *document.HTMLTranslator
	mux      *http.ServeMux
	origins  map[string]bool
	logger   salin.Logger
}

// New creates a Server wired to resolver.
func New(resolver Resolver, opts Options) *Server {
	if opts.Listen == "" {
		opts.Listen = ":8080"
	}

	s := &Server{
		opts:     opts,
		resolver: resolver,
		html:     document.NewHTMLTranslator(resolver),
		mux:      http.NewServeMux(),
		origins:  make(map[string]bool),
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = discardLogger{}
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[o] = true
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /translate/ata", s.handleTranslate)
	s.mux.HandleFunc("POST /translate/html", s.handleTranslateHTML)
	s.mux.HandleFunc("GET /memory/lookup", s.handleLookup)
	s.mux.HandleFunc("PUT /memory", s.handleInsert)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.cors(w, r) {
		return
	}
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts it down gracefully when ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("salin listening on %s", s.opts.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// cors sets CORS headers for allowed origins and answers preflight
// requests. It reports whether the request was fully handled.
func (s *Server) cors(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.origins) == 0 {
		return false
	}

	if s.origins["*"] {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else if s.origins[origin] {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	} else {
		return false
	}

	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Hello": "World"})
}

type healthResponse struct {
	Status  string `json:"status"`
	Online  bool   `json:"online"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Online:  s.resolver.Online(r.Context()),
		Version: salin.FullVersion(),
	})
}

type translateResponse struct {
	Translation string     `json:"translation"`
	Tier        salin.Tier `json:"tier"`
	Persisted   bool       `json:"persisted"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	message := strings.TrimSpace(r.URL.Query().Get("message"))
	if message == "" {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	result, err := s.resolver.Resolve(r.Context(), message)
	if err != nil {
		s.logger.Errorf("translate %q: %v", message, err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Translation: result.Translation,
		Tier:        result.Tier,
		Persisted:   result.Persisted,
	})
}

type htmlResponse struct {
	HTML     string             `json:"html"`
	Segments int                `json:"segments"`
	ByTier   map[salin.Tier]int `json:"by_tier"`
	Failed   []string           `json:"failed,omitempty"`
}

func (s *Server) handleTranslateHTML(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		writeError(w, http.StatusBadRequest, "body cannot be empty")
		return
	}

	out, report, err := s.html.Translate(r.Context(), string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, htmlResponse{
		HTML:     out,
		Segments: report.Segments,
		ByTier:   report.ByTier,
		Failed:   report.Failed,
	})
}

type memoryEntry struct {
	Phrase      string `json:"phrase"`
	Translation string `json:"translation"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("phrase")
	if strings.TrimSpace(phrase) == "" {
		writeError(w, http.StatusBadRequest, "phrase cannot be empty")
		return
	}

	translation, ok := s.resolver.Memory().Lookup(phrase)
	if !ok {
		writeError(w, http.StatusNotFound, "phrase not in memory")
		return
	}

	writeJSON(w, http.StatusOK, memoryEntry{Phrase: salin.Normalize(phrase), Translation: translation})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var entry memoryEntry
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(entry.Phrase) == "" || strings.TrimSpace(entry.Translation) == "" {
		writeError(w, http.StatusBadRequest, "phrase and translation are required")
		return
	}

	if err := s.resolver.Memory().Insert(entry.Phrase, entry.Translation); err != nil {
		if errors.Is(err, salin.ErrInvalidEntry) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Errorf("memory insert %q: %v", entry.Phrase, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, memoryEntry{Phrase: salin.Normalize(entry.Phrase), Translation: entry.Translation})
}

// statusFor maps resolution errors to HTTP status codes.
func statusFor(err error) int {
	var svcErr *salin.ServiceError
	switch {
	case errors.Is(err, salin.ErrEmptyPhrase):
		return http.StatusBadRequest
	case errors.Is(err, salin.ErrNoRoute):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &svcErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"error": map[string]any{"message": message, "code": code}})
}

type discardLogger struct{}

func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}
