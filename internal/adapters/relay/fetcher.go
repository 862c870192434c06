// internal/adapters/relay/fetcher.go
package relay

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"appinsight/internal/adapters/observability"
	"appinsight/internal/domain"
)

// maxBody caps one relay response; storefront pages run to a few MB.
const maxBody = 8 << 20

// Fetcher walks its relay strategies in order until one yields usable data.
// Strategies are never raced and nothing is merged across them.
type Fetcher struct {
	relays   []*relay
	hc       *http.Client
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time

	rps             int
	breakerFailures uint32
	breakerCooldown time.Duration
}

type relay struct {
	Strategy
	rl *rate.Limiter
	cb *gobreaker.CircuitBreaker[domain.Payload]
}

type Option func(*Fetcher)

func WithHTTPClient(hc *http.Client) Option { return func(f *Fetcher) { f.hc = hc } }

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.hc = &http.Client{Timeout: d} }
}

// WithRate limits each relay to rps requests per second.
func WithRate(rps int) Option { return func(f *Fetcher) { f.rps = rps } }

// WithBreaker opens a relay's circuit after n consecutive failures and keeps
// it open for cooldown.
func WithBreaker(n int, cooldown time.Duration) Option {
	return func(f *Fetcher) {
		f.breakerFailures = uint32(n)
		f.breakerCooldown = cooldown
	}
}

// WithCache stores successful payloads keyed by origin URL.
func WithCache(c domain.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

func WithClock(now func() time.Time) Option { return func(f *Fetcher) { f.now = now } }

func New(strategies []Strategy, opts ...Option) (*Fetcher, error) {
	if len(strategies) == 0 {
		return nil, errors.New("at least one relay strategy is required")
	}
	f := &Fetcher{
		hc:              &http.Client{Timeout: 15 * time.Second},
		now:             time.Now,
		rps:             2,
		breakerFailures: 5,
		breakerCooldown: time.Minute,
	}
	for _, o := range opts {
		o(f)
	}
	if f.rps <= 0 {
		f.rps = 2
	}

	for _, s := range strategies {
		if err := s.validate(); err != nil {
			return nil, err
		}
		f.relays = append(f.relays, &relay{
			Strategy: s,
			rl:       rate.NewLimiter(rate.Limit(f.rps), f.rps),
			cb:       newBreaker(s.Name, f.breakerFailures, f.breakerCooldown),
		})
	}
	return f, nil
}

// Fetch returns the first usable payload for target. When every relay fails
// the error is a *domain.RelayExhaustedError.
func (f *Fetcher) Fetch(ctx context.Context, target string) (domain.Payload, error) {
	key := cacheKey(target)
	if f.cache != nil {
		var p domain.Payload
		if ok, err := f.cache.Get(ctx, key, &p); err == nil && ok && !p.Empty() {
			return p, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("relay cache read failed")
		}
	}

	failures := make([]domain.StrategyFailure, 0, len(f.relays))
	for _, r := range f.relays {
		p, err := r.cb.Execute(func() (domain.Payload, error) {
			return f.try(ctx, r, target)
		})
		if err == nil {
			if f.cache != nil {
				if cerr := f.cache.Set(ctx, key, p, int(f.cacheTTL.Seconds())); cerr != nil {
					log.Warn().Err(cerr).Msg("relay cache write failed")
				}
			}
			return p, nil
		}
		if ctx.Err() != nil {
			return domain.Payload{}, ctx.Err()
		}

		reason := reasonOf(err)
		observability.ObserveRelayFailure(r.Name, reason)
		log.Warn().
			Str("strategy", r.Name).
			Str("reason", reason).
			Err(err).
			Msg("relay strategy failed; trying next")
		failures = append(failures, domain.StrategyFailure{Strategy: r.Name, Err: err})
	}

	observability.RelayExhausted.Inc()
	return domain.Payload{}, &domain.RelayExhaustedError{Target: target, Failures: failures}
}

// try performs one request through one relay and decodes it.
func (f *Fetcher) try(ctx context.Context, r *relay, target string) (domain.Payload, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return domain.Payload{}, &strategyError{reason: "limiter", err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.RequestURL(target, f.now()), nil)
	if err != nil {
		return domain.Payload{}, &strategyError{reason: "transport", err: err}
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")
	req.Header.Set("User-Agent", "appinsight/1.0")

	start := time.Now()
	resp, err := f.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("relay", r.Name, 0, time.Since(start))
		return domain.Payload{}, &strategyError{reason: "transport", err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("relay", r.Name, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.Payload{}, &strategyError{reason: "status", err: fmt.Errorf("bad status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.Payload{}, &strategyError{reason: "transport", err: err}
	}
	p, err := r.Decode(body)
	if err != nil {
		reason := "decode"
		if errors.Is(err, errEmpty) {
			reason = "empty"
		}
		return domain.Payload{}, &strategyError{reason: reason, err: err}
	}
	return p, nil
}

type strategyError struct {
	reason string
	err    error
}

func (e *strategyError) Error() string { return e.reason + ": " + e.err.Error() }
func (e *strategyError) Unwrap() error { return e.err }

func reasonOf(err error) string {
	var se *strategyError
	switch {
	case errors.As(err, &se):
		return se.reason
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker"
	default:
		return "unknown"
	}
}

func cacheKey(target string) string {
	sum := sha1.Sum([]byte(target))
	return "relay:" + hex.EncodeToString(sum[:])
}
