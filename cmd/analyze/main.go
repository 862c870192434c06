// Command analyze acquires every app link given on the command line and
// prints one JSON report per line, in argument order.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"appinsight/internal/adapters/observability"
	"appinsight/internal/analytics"
	"appinsight/internal/app"
	"appinsight/internal/bootstrap"
	"appinsight/internal/domain"
	"appinsight/internal/shared"
)

type result struct {
	URL    string      `json:"url"`
	Report *app.Report `json:"report,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func main() {
	country := flag.String("country", "", "two-letter review country (overrides the link)")
	lang := flag.String("lang", "", "analysis language: en or tr")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [-country cc] [-lang en|tr] <app-url>...")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// stdout carries the reports
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stderr)

	l := domain.ParseLanguage(cfg.AnalysisLang)
	if *lang != "" {
		l = domain.ParseLanguage(*lang)
	}
	loc := bootstrap.Location(cfg)
	rng, err := analytics.ResolveRange(cfg.AnalyzeRange, "", "", time.Now(), loc)
	if err != nil {
		log.Fatal().Err(err).Str("range", cfg.AnalyzeRange).Msg("bad analyze range")
	}

	cache, closeCache := bootstrap.Cache(ctx, cfg)
	defer closeCache()
	f, err := bootstrap.Fetcher(cfg, cache)
	if err != nil {
		log.Fatal().Err(err).Msg("relay setup failed")
	}
	acq := bootstrap.Acquisition(cfg, f)

	log.Info().
		Int("apps", flag.NArg()).
		Int("workers", cfg.AnalyzeWorkers).
		Str("range", cfg.AnalyzeRange).
		Msg("analyze starting")

	results := make([]result, flag.NArg())
	sem := semaphore.NewWeighted(int64(cfg.AnalyzeWorkers))
	var wg sync.WaitGroup

	for i, raw := range flag.Args() {
		results[i].URL = raw

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Error = err.Error()
			continue
		}

		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			defer sem.Release(1)

			store, err := acq.Acquire(ctx, raw, *country)
			if err != nil {
				log.Warn().Str("url", raw).Err(err).Msg("acquire failed")
				results[i].Error = domain.PublicMessage(l)
				return
			}
			rep := app.BuildReport(store, l, rng, loc)
			results[i].Report = &rep
			log.Info().Str("url", raw).Int("reviews", rep.Reviews).Msg("analyze ok")
		}(i, raw)
	}
	wg.Wait()

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			log.Fatal().Err(err).Msg("write report")
		}
	}
	log.Info().Int("failed", failed).Msg("analyze completed")
	if failed > 0 {
		os.Exit(1)
	}
}
