package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	dotenvErr := loadDotEnv()
	cfg := loadConfig()
	logger, level := initLogger(cfg.LogLevel)
	defer logger.Sync()
	if dotenvErr != nil {
		logger.Warn("dotenv_load_error", zap.Error(dotenvErr))
	}
	cfg = applyConfigFile(cfg, logger)
	level.SetLevel(parseLevel(cfg.LogLevel))
	logger.Info("wg-endpoints starting", zap.String("version", Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := peers.NewStore()
	ref := initRefresher(cfg, store, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ref.Run(ctx)
	}()

	handler := registerRoutes(ctx, store, ref, cfg, logger)
	startServer(ctx, cfg, handler, logger)

	stop()
	wg.Wait()
}
