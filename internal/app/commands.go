package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"appinsight/internal/adapters/observability"
	"appinsight/internal/domain"
)

var countryRe = regexp.MustCompile(`^[a-z]{2}$`)

// AcquisitionService turns a store link into a ReviewStore: metadata first,
// then reviews, then the fallback storefront when the chosen one has none.
type AcquisitionService struct {
	sources         map[domain.Platform]domain.Source
	defaultCountry  string
	fallbackCountry string
	now             func() time.Time
}

func NewAcquisitionService(defaultCountry, fallbackCountry string, sources ...domain.Source) *AcquisitionService {
	m := make(map[domain.Platform]domain.Source, len(sources))
	for _, s := range sources {
		m[s.Platform()] = s
	}
	return &AcquisitionService{
		sources:         m,
		defaultCountry:  strings.ToLower(defaultCountry),
		fallbackCountry: strings.ToLower(fallbackCountry),
		now:             time.Now,
	}
}

// Acquire fetches the app behind raw. country overrides the storefront in the
// link, which in turn overrides the configured default.
func (s *AcquisitionService) Acquire(ctx context.Context, raw, country string) (*domain.ReviewStore, error) {
	target, err := domain.ParseTarget(raw)
	if err != nil {
		return nil, err
	}
	cc := s.country(country, target.Country)
	if !countryRe.MatchString(cc) {
		return nil, fmt.Errorf("%w: country %q", domain.ErrInvalidInput, cc)
	}
	src, ok := s.sources[target.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: no source for %s", domain.ErrInvalidInput, target.Platform)
	}
	platform := string(target.Platform)

	meta, reviews, err := src.Acquire(ctx, target.AppID, cc)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, domain.ErrAppNotFound) {
			outcome = "not_found"
		}
		observability.ObserveAcquisition(platform, outcome)
		log.Error().Err(err).
			Str("platform", platform).
			Str("app_id", target.AppID).
			Str("country", cc).
			Msg("acquisition failed")
		return nil, fmt.Errorf("acquire %s %s: %w", platform, target.AppID, err)
	}

	reviewCountry := cc
	if len(reviews) == 0 && s.fallbackCountry != "" && cc != s.fallbackCountry {
		fb, ferr := src.Reviews(ctx, target.AppID, s.fallbackCountry)
		switch {
		case ferr != nil:
			log.Warn().Err(ferr).
				Str("app_id", target.AppID).
				Str("country", s.fallbackCountry).
				Msg("fallback review fetch failed")
		case len(fb) > 0:
			log.Info().
				Str("app_id", target.AppID).
				Str("from", cc).
				Str("to", s.fallbackCountry).
				Int("reviews", len(fb)).
				Msg("using fallback storefront reviews")
			reviews, reviewCountry = fb, s.fallbackCountry
		}
	}

	outcome := "ok"
	if len(reviews) == 0 {
		outcome = "empty"
	}
	observability.ObserveAcquisition(platform, outcome)
	return domain.NewReviewStore(meta, reviews, reviewCountry, s.now()), nil
}

func (s *AcquisitionService) country(explicit, fromLink string) string {
	for _, c := range []string{explicit, fromLink, s.defaultCountry} {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			return c
		}
	}
	return ""
}
