package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "appinsight/internal/adapters/http_server"
	"appinsight/internal/adapters/observability"
	"appinsight/internal/app"
	"appinsight/internal/bootstrap"
	"appinsight/internal/domain"
	"appinsight/internal/reply"
	"appinsight/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stdout)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// deps
	cache, closeCache := bootstrap.Cache(ctx, cfg)
	defer closeCache()

	f, err := bootstrap.Fetcher(cfg, cache)
	if err != nil {
		log.Fatal().Err(err).Msg("relay setup failed")
	}
	acq := bootstrap.Acquisition(cfg, f)
	sessions := app.NewSessionService(acq, reply.NewSelector(nil), bootstrap.Location(cfg))

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		S:             sessions,
		AcquirePerMin: cfg.AcquireRatePerMin,
		DefaultLang:   domain.ParseLanguage(cfg.AnalysisLang),
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Int("relays", len(cfg.Relays)).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
