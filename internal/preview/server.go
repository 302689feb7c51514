package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/docsmith/docsmith/internal/builder"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
)

// Server serves the built HTML documentation with live reload: it watches the
// documentation and package sources, rebuilds after changes settle, and tells
// connected browsers to refresh.
type Server struct {
	cfg     *config.Config
	runner  *builder.Runner
	hub     *Hub
	metrics *Metrics
}

// NewServer constructs a preview server for the given configuration.
func NewServer(cfg *config.Config) *Server {
	metrics := NewMetrics()
	return &Server{
		cfg:     cfg,
		runner:  builder.NewRunner(cfg),
		hub:     NewHub(metrics),
		metrics: metrics,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Preview.Host, strconv.Itoa(s.cfg.Preview.Port))
}

// Run builds once, then serves and rebuilds on changes until ctx is cancelled.
// The initial build must succeed; later rebuild failures are logged and the
// previous output stays up.
func (s *Server) Run(ctx context.Context) error {
	if err := s.rebuild(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	watcher, err := NewWatcher(
		[]string{s.cfg.Docs.Directory, filepath.Join(s.cfg.Source, s.cfg.Package)},
		[]string{s.cfg.Docs.BuildDirectory},
		s.metrics,
	)
	if err != nil {
		return err
	}
	defer watcher.Close()

	debouncer, err := NewDebouncer(s.cfg.Preview.QuietWindow.Std(), s.cfg.Preview.MaxDelay.Std())
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}

	httpServer := &http.Server{
		Handler: s.routes(),
		// SSE connections are long-lived, so no write timeout.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan struct{}, 1)
	errCh := make(chan error, 3)

	go func() { errCh <- watcher.Run(runCtx, changes) }()
	go func() {
		errCh <- debouncer.Run(runCtx, changes, func(ctx context.Context) {
			if err := s.rebuild(ctx); err != nil {
				slog.Error("rebuild failed, keeping previous output", logfields.Error(err))
			}
		})
	}()
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	slog.Info("preview server listening",
		"url", "http://"+s.Addr(),
		logfields.Path(s.runner.OutDir(builder.HTML)))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()

	s.hub.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", logfields.Error(err))
	}
	return runErr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", injectLiveReload(http.FileServer(http.Dir(s.runner.OutDir(builder.HTML)))))
	mux.Handle("/livereload", s.hub)
	mux.HandleFunc(livereloadScriptPath, serveClientScript)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","clients":%d}`+"\n", s.hub.ClientCount())
	})
	if s.cfg.Preview.Metrics == nil || *s.cfg.Preview.Metrics {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

func (s *Server) rebuild(ctx context.Context) error {
	start := time.Now()
	err := s.runner.Run(ctx, builder.HTML)
	elapsed := time.Since(start)
	s.metrics.ObserveBuild(elapsed, err)
	if err != nil {
		return err
	}
	slog.Info("documentation rebuilt", logfields.DurationMS(float64(elapsed.Milliseconds())))
	s.hub.Broadcast(uuid.New().String())
	return nil
}
