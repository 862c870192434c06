// internal/adapters/playstore/source.go
package playstore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"appinsight/internal/domain"
)

const detailsURL = "https://play.google.com/store/apps/details?id=%s&hl=%s&gl=%s"

// Source scrapes the Play storefront page through a relay Fetcher. Metadata
// and reviews come from the same page.
type Source struct {
	f    domain.Fetcher
	lang string
	key  string
	now  func() time.Time
}

func New(f domain.Fetcher, lang, reviewsKey string) *Source {
	if lang == "" {
		lang = "en"
	}
	if reviewsKey == "" {
		reviewsKey = DefaultReviewsKey
	}
	return &Source{f: f, lang: lang, key: reviewsKey, now: time.Now}
}

func (s *Source) Platform() domain.Platform { return domain.PlatformAndroid }

func (s *Source) Acquire(ctx context.Context, appID, country string) (domain.AppMetadata, []domain.Review, error) {
	html, err := s.page(ctx, appID, country)
	if err != nil {
		return domain.AppMetadata{}, nil, err
	}
	meta, err := ParseMetadata(html, appID, country)
	if err != nil {
		return domain.AppMetadata{}, nil, err
	}
	return meta, s.reviews(html, appID), nil
}

func (s *Source) Reviews(ctx context.Context, appID, country string) ([]domain.Review, error) {
	html, err := s.page(ctx, appID, country)
	if err != nil {
		return nil, err
	}
	return s.reviews(html, appID), nil
}

func (s *Source) page(ctx context.Context, appID, country string) (string, error) {
	target := fmt.Sprintf(detailsURL, url.QueryEscape(appID), url.QueryEscape(s.lang), url.QueryEscape(country))
	p, err := s.f.Fetch(ctx, target)
	if err != nil {
		return "", err
	}
	if p.Text == "" {
		// the storefront is HTML; a JSON answer means the relay served something else
		return "", fmt.Errorf("%w: storefront page is not html", domain.ErrAppNotFound)
	}
	return p.Text, nil
}

func (s *Source) reviews(html, appID string) []domain.Review {
	out := ParseReviews(html, s.key, s.now())
	if len(out) == 0 {
		log.Debug().Str("app_id", appID).Str("key", s.key).Msg("no embedded play reviews found")
	}
	return out
}
