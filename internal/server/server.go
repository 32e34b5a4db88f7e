// Package server serves a built output tree over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Options configures optional server behavior.
type Options struct {
	// Recorder receives per-request metrics; nil means no metrics.
	Recorder metrics.Recorder
	// MetricsRegistry, when non-nil, exposes /metrics for it.
	MetricsRegistry *prom.Registry
	// Health reports readiness; a non-nil error makes /healthz return 503.
	Health func() error
}

// Server serves an immutable output tree. Requests share no mutable state, so
// no locking is needed between concurrent handlers.
type Server struct {
	root     string
	recorder metrics.Recorder
	opts     Options
}

// New creates a server over the given document root.
func New(root string, opts Options) *Server {
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Server{root: filepath.Clean(root), recorder: rec, opts: opts}
}

// Serve binds to addr and serves until ctx is canceled. Bind failures return
// immediately; per-request failures never take the process down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return serrors.BindFailure(addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on a pre-bound listener (injectable for tests).
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(ln)
	}()

	slog.Info("Serving static site", "root", s.root, "addr", ln.Addr().String())

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler serving the output tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.opts.MetricsRegistry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.MetricsRegistry))
	}
	mux.HandleFunc("/", s.handleFile)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.opts.Health != nil {
		if err := s.opts.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "unhealthy: "+err.Error()+"\n")
			return
		}
	}
	_, _ = io.WriteString(w, "ok\n")
}

// handleFile maps the URL path onto the document root, appending index.html
// for directory-like paths.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := s.serveFile(w, r)
	s.recorder.IncHTTPRequest(status)
	s.recorder.ObserveHTTPRequestDuration(time.Since(start))
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "status", status)
	} else {
		slog.Debug("Request served", "path", r.URL.Path, "status", status)
	}
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) int {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}

	// path.Clean rejects traversal; the result is always rooted at "/".
	clean := path.Clean("/" + r.URL.Path)
	target := filepath.Join(s.root, filepath.FromSlash(clean))

	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		// Directory-like path: redirect to the canonical trailing-slash form
		// so relative links resolve, then serve its default document.
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, clean+"/", http.StatusMovedPermanently)
			return http.StatusMovedPermanently
		}
		target = filepath.Join(target, "index.html")
		info, err = os.Stat(target)
	}
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return http.StatusNotFound
	}

	f, err := os.Open(target)
	if err != nil {
		// The path resolved but the file cannot be read: a server-side
		// failure for this request only.
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return http.StatusInternalServerError
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", contentType(target))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return http.StatusOK
	}
	if _, err := io.Copy(w, f); err != nil {
		// Headers already sent; nothing to do but log.
		slog.Debug("Copy interrupted", "path", r.URL.Path, "error", err)
	}
	return http.StatusOK
}

// contentType infers a content type from the file extension.
func contentType(p string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(p))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
