package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/observability"
)

// StartupTask runs once before the listener opens.
type StartupTask func(ctx context.Context) error

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime

	ShutdownTimeout time.Duration
	startup         []StartupTask
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, startup ...StartupTask) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		Server:          server,
		Observability:   runtime,
		ShutdownTimeout: cfg.ShutdownTimeout,
		startup:         startup,
	}
}

// Run serves until ctx is cancelled or the listener fails, then drains.
func (a *App) Run(ctx context.Context) error {
	for _, task := range a.startup {
		if task == nil {
			continue
		}
		if err := task(ctx); err != nil {
			return fmt.Errorf("startup: %w", err)
		}
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Server.Addr, err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", "addr", ln.Addr().String())
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			a.Logger.Error("http server failed", "error", err.Error())
			return errors.Join(err, a.Shutdown(context.Background()))
		}
	}
	return a.Shutdown(context.Background())
}

func (a *App) Shutdown(ctx context.Context) error {
	timeout := a.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("observability shutdown: %w", err))
	}
	if len(errs) == 0 {
		a.Logger.Info("shutdown complete")
	}
	return errors.Join(errs...)
}
