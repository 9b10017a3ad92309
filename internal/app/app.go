package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/marketevents/internal/config"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, dependencies, router, refresh schedule
// and server lifecycle.
type Application struct {
	cfg       config.Application
	deps      *Dependencies
	router    *mux.Router
	srv       *http.Server
	scheduler *cron.Cron
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(cfg config.Application) (*Application, error) {
	return NewApplicationWithDependencies(cfg, BuildDependencies(cfg))
}

func NewApplicationWithDependencies(cfg config.Application, deps *Dependencies) (*Application, error) {
	r := mux.NewRouter()

	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a := &Application{cfg: cfg, deps: deps, router: r, srv: srv}
	if cfg.Refresh != "" {
		a.scheduler = cron.New()
		if _, err := a.scheduler.AddFunc(cfg.Refresh, func() {
			log.Debug("Refreshing market events")
			a.deps.Bootstrap.OnReady(context.Background())
		}); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.Refresh, err)
		}
	}

	return a, nil
}

func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run loads the document, starts the refresh schedule and serves HTTP until
// ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.deps.Bootstrap.OnReady(ctx)

	if a.scheduler != nil {
		log.Infof("Refreshing market events on schedule %q", a.cfg.Refresh)
		a.scheduler.Start()
		defer func() {
			<-a.scheduler.Stop().Done()
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}
