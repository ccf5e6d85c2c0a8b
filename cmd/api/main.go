package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "costafeed/internal/adapters/http_server"
	"costafeed/internal/adapters/observability"
	"costafeed/internal/app"
	"costafeed/internal/feeds"
	"costafeed/internal/feeds/kyero"
	"costafeed/internal/feeds/sooprema"
	"costafeed/internal/shared"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	client := feeds.NewClient(cfg.FetchTimeout, cfg.FeedRPS)
	primary := kyero.New(kyero.Config{
		URL:           cfg.KyeroURL,
		TrialURL:      cfg.KyeroTrialURL,
		UseTrial:      cfg.UseTrialFeed,
		NewBuildsOnly: cfg.NewBuildsOnly,
	}, client, log.Logger)
	secondary := sooprema.New(sooprema.Config{
		URL:           cfg.SoopremaURL,
		NewBuildsOnly: cfg.NewBuildsOnly,
	}, client, log.Logger)

	// adapter order is dedup priority: the kyero feed wins conflicts
	cache := app.NewCache(cfg.CacheTTL, log.Logger, primary, secondary)
	q := app.NewQueryService(cache)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
