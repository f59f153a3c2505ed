// Package fixtures serves in-process doubles of the REST posts service and
// the file upload page, reproducing the status codes and markup the
// scenarios depend on.
package fixtures

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/probe/internal/logging"
)

// Server is a chi router with request logging in front of it.
type Server struct {
	cfg    Config
	router chi.Router
	logger logging.Logger
}

func newServer(cfg Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.PostCount <= 0 {
		cfg.PostCount = DefaultConfig().PostCount
	}
	return &Server{cfg: cfg, router: chi.NewRouter(), logger: logger}
}

// New serves both the posts API and the upload page.
func New(cfg Config, logger logging.Logger) *Server {
	s := newServer(cfg, logger)
	s.mountPosts()
	s.mountUpload()
	return s
}

// NewPostsServer serves only /posts.
func NewPostsServer(cfg Config, logger logging.Logger) *Server {
	s := newServer(cfg, logger)
	s.mountPosts()
	return s
}

// NewUploadSite serves only /upload.
func NewUploadSite(cfg Config, logger logging.Logger) *Server {
	s := newServer(cfg, logger)
	s.mountUpload()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Debug("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
