// Package toolserver exposes a tool registry over HTTP so agent frameworks
// in other processes can list and call the speech tools.
//
// Routes:
//
//	GET  /healthz       liveness
//	GET  /tools         all tool descriptors
//	GET  /tools/{name}  one descriptor
//	POST /tools/{name}  execute; body {"id": "...", "args": {...}, "config": {...}}
//
// A call that reaches the tool always answers 200 with a ToolResult, even
// when the tool failed; the failure is in its content. Unknown tools and
// invalid input answer 404 and 400.
package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	pkgerrors "github.com/AltairaLabs/speechkit/pkg/errors"
	"github.com/AltairaLabs/speechkit/pkg/httputil"
	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/tools"
)

const (
	// defaultReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	defaultReadTimeout = 30 * time.Second

	// defaultWriteTimeout covers a waited transcription or synthesis job.
	defaultWriteTimeout = 15 * time.Minute

	// defaultIdleTimeout is the maximum amount of time to wait for the
	// next request when keep-alives are enabled.
	defaultIdleTimeout = 120 * time.Second

	// defaultMaxBodySize is the maximum allowed size of a request body (1 MB).
	defaultMaxBodySize int64 = 1 << 20

	component = "toolserver"
)

// Option configures a [Server].
type Option func(*Server)

// WithMetricsHandler mounts h at path, typically the Prometheus exporter.
func WithMetricsHandler(path string, h http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metrics = h
	}
}

// WithReadTimeout sets the maximum duration for reading the entire request.
// Default: 30s.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of
// the response. Default: 15m.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// WithIdleTimeout sets the keep-alive idle timeout. Default: 120s.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// WithMaxBodySize sets the maximum allowed request body size in bytes.
// Default: 1 MB.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) { s.maxBodySize = n }
}

// Server serves a tool registry.
type Server struct {
	registry    *tools.Registry
	metrics     http.Handler
	metricsPath string

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
	maxBodySize  int64

	httpSrv   *http.Server
	httpSrvMu sync.Mutex
}

// New creates a server for registry.
func New(registry *tools.Registry, opts ...Option) *Server {
	s := &Server{
		registry:     registry,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		idleTimeout:  defaultIdleTimeout,
		maxBodySize:  defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, withRequestLogging, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/tools", s.handleList)
	r.Get("/tools/{name}", s.handleDescribe)
	r.Post("/tools/{name}", s.handleCall)
	if s.metrics != nil {
		r.Handle(s.metricsPath, s.metrics)
	}
	return httputil.InstrumentHandler(r, "speechkit-tools")
}

// ListenAndServe serves on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := s.newHTTPServer()
	srv.Addr = addr
	return srv.ListenAndServe()
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.newHTTPServer().Serve(ln)
}

func (s *Server) newHTTPServer() *http.Server {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: httputil.DefaultReadHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
	}
	s.httpSrvMu.Lock()
	s.httpSrv = srv
	s.httpSrvMu.Unlock()
	return srv
}

// Shutdown gracefully drains in-flight calls.
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpSrvMu.Lock()
	srv := s.httpSrv
	s.httpSrvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

type listResponse struct {
	Tools []*tools.ToolDescriptor `json:"tools"`
}

type callRequest struct {
	ID     string          `json:"id,omitempty"`
	Args   json.RawMessage `json:"args"`
	Config json.RawMessage `json:"config,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Tool  string `json:"tool,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{Tools: s.registry.Descriptors()})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d := s.registry.Get(name)
	if d == nil {
		writeError(w, r, pkgerrors.New(component, "Describe", tools.ErrToolNotFound).
			WithStatusCode(http.StatusNotFound).WithDetail("tool", name))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req callRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, pkgerrors.New(component, "DecodeCall", err).
			WithStatusCode(http.StatusBadRequest).WithDetail("tool", name))
		return
	}

	result, err := s.registry.Execute(r.Context(), tools.ToolCall{
		Name:   name,
		ID:     req.ID,
		Args:   req.Args,
		Config: req.Config,
	})
	if err != nil {
		writeError(w, r, pkgerrors.New(component, "Execute", err).
			WithStatusCode(callStatus(err)).WithDetail("tool", name))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func callStatus(err error) int {
	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		return http.StatusNotFound
	case tools.IsCallError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, ce *pkgerrors.ContextualError) {
	tool, _ := ce.Details["tool"].(string)
	if ce.StatusCode >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Tool request failed", "tool", tool, "error", ce)
	} else {
		logger.DebugContext(r.Context(), "Tool request rejected", "tool", tool, "error", ce)
	}
	writeJSON(w, ce.StatusCode, errorResponse{Error: ce.Cause.Error(), Tool: tool})
}

// withRequestLogging tags the request context with chi's request ID so every
// log line of the call carries it.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
