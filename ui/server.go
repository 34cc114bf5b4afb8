package ui

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"gobenford/internal/config"
	"gobenford/internal/container"
)

// Run wires the application from cfg and serves it until ctx is done
func Run(ctx context.Context, cfg *config.Config) error {
	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	a, err := NewApp(c.AnalysisService, Config{
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		HistoryLimit:   cfg.History.Limit,
	}, c.Logger)
	if err != nil {
		return err
	}
	return NewServer(a, cfg.Server).Start(ctx)
}

// Server runs an App until its context is cancelled
type Server struct {
	http  *http.Server
	app   *App
	grace time.Duration
}

// NewServer wraps app in an http.Server configured from cfg
func NewServer(app *App, cfg config.ServerConfig) *Server {
	return &Server{
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      app.Handler(),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		app:   app,
		grace: cfg.ShutdownGrace,
	}
}

// Start serves until ctx is done, then drains in-flight requests for up to
// the configured grace period.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.app.logger.Info("listening on http://localhost%s", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
