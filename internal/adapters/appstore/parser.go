package appstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"appinsight/internal/adapters/payload"
	"appinsight/internal/domain"
)

// ParseLookup maps the first iTunes lookup result. An empty result set means
// the id does not exist in that storefront.
func ParseLookup(p domain.Payload, country string) (domain.AppMetadata, error) {
	if !p.Structured() {
		return domain.AppMetadata{}, fmt.Errorf("%w: lookup is not json", domain.ErrParse)
	}
	results, ok := payload.Lookup(p.Data, "results").([]any)
	if !ok || len(results) == 0 {
		return domain.AppMetadata{}, domain.ErrAppNotFound
	}
	r := results[0]

	avg, _ := payload.Float(r, "averageUserRating")
	count, _ := payload.Int(r, "userRatingCount")
	return domain.AppMetadata{
		Name:          payload.Str(r, "trackName"),
		Icon:          payload.FirstStr(r, "artworkUrl512", "artworkUrl100"),
		Developer:     payload.Str(r, "artistName"),
		Description:   payload.Str(r, "description"),
		AverageRating: avg,
		RatingCount:   int(count),
		Price:         payload.Str(r, "formattedPrice"),
		Genre:         payload.Str(r, "primaryGenreName"),
		StoreURL:      payload.Str(r, "trackViewUrl"),
		Platform:      domain.PlatformIOS,
		Country:       country,
	}, nil
}

// ParseFeed maps a customer-review feed, either the JSON rendition or the Atom
// XML one. The first entry of the feed describes the app rather than a review
// and is always dropped. Reviews without a date get fetchedAt.
func ParseFeed(p domain.Payload, fetchedAt time.Time) ([]domain.Review, error) {
	if p.Structured() {
		return parseJSONFeed(p.Data, fetchedAt)
	}
	if strings.HasPrefix(strings.TrimSpace(p.Text), "<") {
		return parseAtomFeed(p.Text, fetchedAt)
	}
	return nil, fmt.Errorf("%w: review feed is neither json nor xml", domain.ErrParse)
}

func parseJSONFeed(data any, fetchedAt time.Time) ([]domain.Review, error) {
	if _, ok := payload.Lookup(data, "feed").(map[string]any); !ok {
		return nil, fmt.Errorf("%w: no feed object", domain.ErrParse)
	}
	entries := payload.Items(data, "feed.entry")
	if len(entries) <= 1 {
		return []domain.Review{}, nil
	}

	out := make([]domain.Review, 0, len(entries)-1)
	for _, e := range entries[1:] {
		rating, _ := strconv.Atoi(strings.TrimSpace(payload.Str(e, "im:rating.label")))
		author := payload.Str(e, "author.name.label")
		if author == "" {
			author = domain.DefaultAuthor
		}
		out = append(out, domain.Review{
			ID:      payload.Str(e, "id.label"),
			Author:  author,
			Rating:  domain.ClampRating(rating),
			Title:   payload.Str(e, "title.label"),
			Content: payload.Str(e, "content.label"),
			Version: payload.Str(e, "im:version.label"),
			RawDate: parseDate(payload.Str(e, "updated.label"), fetchedAt),
		})
	}
	return out, nil
}

func parseAtomFeed(text string, fetchedAt time.Time) ([]domain.Review, error) {
	feed, err := gofeed.NewParser().ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: atom: %v", domain.ErrParse, err)
	}
	if len(feed.Items) <= 1 {
		return []domain.Review{}, nil
	}

	out := make([]domain.Review, 0, len(feed.Items)-1)
	for _, it := range feed.Items[1:] {
		author := domain.DefaultAuthor
		if len(it.Authors) > 0 && it.Authors[0] != nil && it.Authors[0].Name != "" {
			author = it.Authors[0].Name
		}
		rating, _ := strconv.Atoi(strings.TrimSpace(imValue(it.Extensions, "rating")))

		date := fetchedAt
		if it.UpdatedParsed != nil {
			date = *it.UpdatedParsed
		} else if it.PublishedParsed != nil {
			date = *it.PublishedParsed
		}

		content := it.Content
		if content == "" {
			content = it.Description
		}
		out = append(out, domain.Review{
			ID:      it.GUID,
			Author:  author,
			Rating:  domain.ClampRating(rating),
			Title:   it.Title,
			Content: content,
			Version: imValue(it.Extensions, "version"),
			RawDate: date,
		})
	}
	return out, nil
}

// imValue reads an iTunes-namespace extension element such as <im:rating>.
func imValue(exts ext.Extensions, name string) string {
	if exts == nil {
		return ""
	}
	vals := exts["im"][name]
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0].Value)
}

func parseDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
