// Package server exposes the compiler over HTTP.
//
//	POST /compile  {"source": "...", "filename": "x.tfi", "options": {...}}
//	POST /run      same request; the generated program is executed too
//	GET  /health
//
// Every response carries the request ID in the X-Request-Id header and in
// the JSON body.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const maxRequestSize = 1 << 20

// Config holds the server settings.
type Config struct {
	Addr        string        // listen address, e.g. "localhost:8547"
	CORSOrigins []string      // allowed browser origins; empty disables CORS
	RunTimeout  time.Duration // limit for /run executions; 0 means no limit
}

// Server serves compile and run requests.
type Server struct {
	conf    Config
	handler http.Handler
	log     log15.Logger
}

// New creates a server for conf.
func New(conf Config) *Server {
	s := &Server{conf: conf, log: log15.New("module", "server")}

	router := httprouter.New()
	router.POST("/compile", s.handleCompile)
	router.POST("/run", s.handleRun)
	router.GET("/health", s.handleHealth)

	s.handler = router
	if len(conf.CORSOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: conf.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         600,
		}).Handler(router)
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	w.Header().Set("X-Request-Id", id)
	r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

	start := time.Now()
	s.handler.ServeHTTP(w, r)
	s.log.Debug("Served request", "reqid", id, "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
}

// ListenAndServe serves on conf.Addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.conf.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("HTTP server started", "addr", ln.Addr().String(), "cors", strings.Join(s.conf.CORSOrigins, ","))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("HTTP server stopped", "addr", ln.Addr().String())
	return nil
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
