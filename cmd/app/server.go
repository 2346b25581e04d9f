package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"
)

func startServer(ctx context.Context, cfg appConfig, handler http.Handler, logger *zap.Logger) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       duration("READ_TIMEOUT", cfg.ReadTimeout, 10*time.Second, logger),
		WriteTimeout:      duration("WRITE_TIMEOUT", cfg.WriteTimeout, 10*time.Second, logger),
		ErrorLog:          zap.NewStdLog(logger),
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("Server down", zap.Error(err))
	}
	if cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConns)
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", addr), zap.Int("max_conns", cfg.MaxConns))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server down", zap.Error(err))
		}
	case <-ctx.Done():
		timeout := duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, 10*time.Second, logger)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.Info("Shutting down", zap.Duration("timeout", timeout))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown_incomplete", zap.Error(err))
		}
	}
}
