package daemon

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
)

// ServerOptions configures the HTTP server.
type ServerOptions struct {
	Addr string
	// SiteDir is served at / when set.
	SiteDir string
	// Registry enables MetricsPath when set.
	Registry    *prom.Registry
	MetricsPath string
}

// HTTPServer serves health, metrics and optionally the generated site.
type HTTPServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

func newMux(opts ServerOptions, status *buildStatus) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", status.handleHealth)
	if opts.Registry != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, metrics.HTTPHandler(opts.Registry))
	}
	if opts.SiteDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(opts.SiteDir)))
	}
	return mux
}

// StartHTTPServer listens on opts.Addr and serves in the background.
func StartHTTPServer(opts ServerOptions, status *buildStatus, logger *slog.Logger) (*HTTPServer, error) {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
			WithContext("addr", opts.Addr).
			Build()
	}
	s := &HTTPServer{
		srv: &http.Server{
			Handler:           newMux(opts, status),
			ReadHeaderTimeout: 10 * time.Second,
		},
		ln:     ln,
		logger: logger,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	logger.Info("HTTP server listening", logfields.URL("http://"+ln.Addr().String()))
	return s, nil
}

// Addr is the bound listen address.
func (s *HTTPServer) Addr() string { return s.ln.Addr().String() }

// Stop shuts the server down gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
