package shared

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
)

// Config is the whole environment surface. Everything has a default so a
// bare process starts against the production feeds.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:""`

	// Primary feed (Kyero XML). The trial endpoint carries sample data and is
	// switched in for staging builds.
	KyeroURL      string `env:"KYERO_FEED_URL" envDefault:"https://xml.redsp.net/file/450/23a140q0551/general-zone-1-kyero.xml"`
	KyeroTrialURL string `env:"KYERO_TRIAL_URL" envDefault:"https://www.redsp.net/trial/trial-feed-kyero.xml"`
	UseTrialFeed  bool   `env:"USE_TRIAL_FEED" envDefault:"false"`

	// Secondary feed (Sooprema XML export).
	SoopremaURL string `env:"SOOPREMA_FEED_URL" envDefault:"https://backgroundproperties.com/wp-load.php?export_id=19&action=get_data"`

	NewBuildsOnly bool          `env:"NEW_BUILDS_ONLY" envDefault:"true"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	FetchTimeout  time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"30s"`
	FeedRPS       int           `env:"FEED_RPS" envDefault:"2"`

	// Cron spec for the warm refresher.
	RefreshCron string `env:"REFRESH_CRON" envDefault:"@hourly"`
}

func Load() Config {
	var c Config
	if err := env.Parse(&c); err != nil {
		log.Fatal().Err(err).Msg("config parse failed")
	}
	return c
}
