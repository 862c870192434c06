// Package bootstrap wires configuration into the acquisition stack shared by
// the API server and the batch CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"appinsight/internal/adapters/appstore"
	"appinsight/internal/adapters/playstore"
	redisad "appinsight/internal/adapters/redis"
	"appinsight/internal/adapters/relay"
	"appinsight/internal/app"
	"appinsight/internal/domain"
	"appinsight/internal/shared"
)

// Cache connects to Redis when configured. A Redis that does not answer is
// logged and skipped; the service works without it.
func Cache(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; relay payload cache disabled")
		_ = c.Close()
		return nil, func() {}
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
	return c, func() { _ = c.Close() }
}

// Fetcher builds the relay chain from cfg. cache may be nil.
func Fetcher(cfg shared.Config, cache domain.Cache) (*relay.Fetcher, error) {
	strategies := make([]relay.Strategy, 0, len(cfg.Relays))
	for _, r := range cfg.Relays {
		strategies = append(strategies, relay.Strategy{Name: r.Name, URL: r.URL, Mode: relay.Mode(r.Mode)})
	}
	opts := []relay.Option{
		relay.WithTimeout(cfg.RelayTimeout),
		relay.WithRate(cfg.RelayRPS),
		relay.WithBreaker(cfg.BreakerFailures, cfg.BreakerCooldown),
	}
	if cache != nil && cfg.CacheTTL > 0 {
		opts = append(opts, relay.WithCache(cache, cfg.CacheTTL))
	}
	f, err := relay.New(strategies, opts...)
	if err != nil {
		return nil, fmt.Errorf("relay chain: %w", err)
	}
	return f, nil
}

// Acquisition returns an AcquisitionService with both platform sources.
func Acquisition(cfg shared.Config, f domain.Fetcher) *app.AcquisitionService {
	return app.NewAcquisitionService(cfg.DefaultCountry, cfg.FallbackCountry,
		appstore.New(f, cfg.ReviewSort),
		playstore.New(f, cfg.AnalysisLang, cfg.PlayReviewsKey),
	)
}

func Location(cfg shared.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone; using UTC")
		return time.UTC
	}
	return loc
}
