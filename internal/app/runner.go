package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"xav-address-service/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(func(ctx context.Context, server *http.Server, debug debugServer, logger logx.Logger, flush shutdownHook) error {
		defer func() { _ = logger.Sync() }()
		defer flush()

		errCh := startServer(server, logger)
		var debugErrCh <-chan error
		if debug.Server != nil {
			debugErrCh = startServer(debug.Server, logger.With(logx.String("listener", "debug")))
		}
		select {
		case err := <-errCh:
			if debug.Server != nil {
				gracefulShutdown(debug.Server, logger, shutdownTimeout)
			}
			return err
		case err := <-debugErrCh:
			gracefulShutdown(server, logger, shutdownTimeout)
			return err
		case <-ctx.Done():
			logger.Info("shutting down service-xav")
		}
		gracefulShutdown(server, logger, shutdownTimeout)
		if debug.Server != nil {
			gracefulShutdown(debug.Server, logger, shutdownTimeout)
		}
		return nil
	})
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("service-xav listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
		if err := srv.Close(); err != nil {
			logger.Error("server close error", logx.Err(err))
		}
	}
}
