// internal/adapters/appstore/source.go
package appstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"appinsight/internal/domain"
)

const (
	lookupURL = "https://itunes.apple.com/lookup?id=%s&country=%s"
	feedURL   = "https://itunes.apple.com/%s/rss/customerreviews/id=%s/sortBy=%s/json"
)

// Source acquires App Store metadata and reviews through a relay Fetcher.
type Source struct {
	f    domain.Fetcher
	sort string
	now  func() time.Time
}

func New(f domain.Fetcher, sort string) *Source {
	if sort == "" {
		sort = "mostRecent"
	}
	return &Source{f: f, sort: sort, now: time.Now}
}

func (s *Source) Platform() domain.Platform { return domain.PlatformIOS }

func (s *Source) Acquire(ctx context.Context, appID, country string) (domain.AppMetadata, []domain.Review, error) {
	p, err := s.f.Fetch(ctx, fmt.Sprintf(lookupURL, url.QueryEscape(appID), url.QueryEscape(country)))
	if err != nil {
		return domain.AppMetadata{}, nil, err
	}
	meta, err := ParseLookup(p, country)
	if err != nil {
		if errors.Is(err, domain.ErrParse) {
			// a lookup we cannot read is as good as no result
			log.Warn().Err(err).Str("app_id", appID).Msg("ios lookup unreadable")
			return domain.AppMetadata{}, nil, fmt.Errorf("%w: %v", domain.ErrAppNotFound, err)
		}
		return domain.AppMetadata{}, nil, err
	}

	reviews, err := s.Reviews(ctx, appID, country)
	if err != nil {
		return domain.AppMetadata{}, nil, err
	}
	return meta, reviews, nil
}

// Reviews fetches the review feed for one storefront. A feed that cannot be
// parsed yields no reviews; only relay exhaustion is returned as an error.
func (s *Source) Reviews(ctx context.Context, appID, country string) ([]domain.Review, error) {
	p, err := s.f.Fetch(ctx, fmt.Sprintf(feedURL, url.PathEscape(country), url.PathEscape(appID), url.PathEscape(s.sort)))
	if err != nil {
		return nil, err
	}
	reviews, err := ParseFeed(p, s.now())
	if err != nil {
		log.Warn().Err(err).Str("app_id", appID).Str("country", country).Msg("ios review feed unreadable; treating as empty")
		return []domain.Review{}, nil
	}
	return reviews, nil
}
