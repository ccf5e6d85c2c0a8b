// The refresher keeps the snapshot warm on a schedule so the first visitor
// after a TTL expiry doesn't pay for a cold fetch. Point it at the same cache
// configuration as the API when running both in one pod is not an option;
// when the API runs alone, its lazy refresh is sufficient.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

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

	cache := app.NewCache(cfg.CacheTTL, log.Logger, primary, secondary)

	refresh := func() {
		snap := cache.Refresh(context.Background(), true)
		log.Info().Int("properties", len(snap.Properties)).Time("fetched", snap.FetchedAt).Msg("refresh complete")
	}

	log.Info().Str("cron", cfg.RefreshCron).Msg("refresher starting")
	refresh() // warm immediately, then on schedule

	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCron, refresh); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.RefreshCron).Msg("invalid cron spec")
	}
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx := c.Stop()
	<-ctx.Done()
	log.Info().Msg("refresher stopped")
}
