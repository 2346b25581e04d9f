package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
	"github.com/shuliakovsky/wg-endpoints/pkg/refresher"
	"github.com/shuliakovsky/wg-endpoints/pkg/status"
)

func initFetcher(cfg appConfig, logger *zap.Logger) status.Fetcher {
	if cfg.Source == "device" {
		logger.Info("status_source", zap.String("source", "device"), zap.String("interface", cfg.Interface))
		return &status.DeviceFetcher{Interface: cfg.Interface}
	}
	timeout := duration("FETCH_TIMEOUT", cfg.FetchTimeout, 5*time.Second, logger)
	f, err := status.NewCommandFetcher(cfg.WGCommand, timeout)
	if err != nil {
		logger.Fatal("wg_command_invalid", zap.String("command", cfg.WGCommand), zap.Error(err))
	}
	logger.Info("status_source",
		zap.String("source", "command"),
		zap.Strings("argv", f.Args),
		zap.Duration("timeout", timeout),
	)
	return f
}

func initRefresher(cfg appConfig, store *peers.Store, logger *zap.Logger) *refresher.Refresher {
	interval := duration("REFRESH_INTERVAL", cfg.RefreshInterval, refresher.DefaultInterval, logger)
	return refresher.New(initFetcher(cfg, logger), store, interval, logger)
}
