package main

import (
	"context"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/shuliakovsky/wg-endpoints/pkg/api"
	"github.com/shuliakovsky/wg-endpoints/pkg/docs"
	"github.com/shuliakovsky/wg-endpoints/pkg/metrics"
	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
	"github.com/shuliakovsky/wg-endpoints/pkg/refresher"
	"github.com/shuliakovsky/wg-endpoints/pkg/render"
)

func registerRoutes(
	ctx context.Context,
	store *peers.Store,
	ref *refresher.Refresher,
	cfg appConfig,
	logger *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	renderer := render.New(cfg.TemplatesDir, store)
	public := api.NewPublic(store, renderer, ref, logger)
	public.Build = Version
	wsAPI := api.NewWS(store, logger)
	// hijacked WebSocket connections are not closed by Server.Shutdown
	wsAPI.Done = ctx.Done()
	api.Mount(mux, public, wsAPI)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	docs.SetHost(cfg.Host, cfg.Port)
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/swagger.json"),
		httpSwagger.InstanceName("swagger"),
	))
	mux.HandleFunc("GET /swagger/swagger.json", docs.JSONHandler)

	// Metrics
	metrics.Init(store)
	mux.Handle("GET /metrics", metrics.Handler())

	return api.WithObservability(api.WithCORS(mux), logger)
}
