package playstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"

	"appinsight/internal/adapters/payload"
	"appinsight/internal/domain"
)

// Placeholders used when the storefront page omits a field.
const (
	PlaceholderName        = "Android App"
	PlaceholderIcon        = "https://upload.wikimedia.org/wikipedia/commons/d/d0/Google_Play_Arrow_logo.svg"
	PlaceholderDeveloper   = "Google Play Developer"
	PlaceholderDescription = "Description limited by Google Play restrictions."
	PlaceholderPrice       = "Free/Paid"
	PlaceholderGenre       = "App"
)

// DefaultReviewsKey is the AF_initDataCallback key that carries the review list.
const DefaultReviewsKey = "ds:11"

const callbackMarker = "AF_initDataCallback("

// callbackRe is applied to one callback body at a time; error callbacks carry
// no data field and must not borrow the next callback's.
var callbackRe = regexp.MustCompile(`(?s)^\{key:\s*'([^']+)'.*?data:(.*?),\s*sideChannel:`)

// ParseMetadata reads app metadata out of a storefront HTML page. It never
// fails: every field it cannot find gets a placeholder.
func ParseMetadata(html, appID, country string) (domain.AppMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.AppMetadata{}, fmt.Errorf("%w: html: %v", domain.ErrParse, err)
	}

	m := domain.AppMetadata{
		StoreURL: "https://play.google.com/store/apps/details?id=" + appID,
		Platform: domain.PlatformAndroid,
		Country:  country,
	}

	m.Name = firstText(
		strings.TrimSpace(doc.Find(`h1[itemprop="name"]`).First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
		metaContent(doc, `meta[property="og:title"]`),
	)
	m.Icon = firstText(
		attr(doc.Find(`img[alt="Cover art"]`).First(), "src"),
		metaContent(doc, `meta[property="og:image"]`),
	)

	if app := softwareApplication(doc); app != nil {
		m.Developer = payload.FirstStr(app, "author.name")
		m.Description = payload.Str(app, "description")
		m.Genre = payload.Str(app, "applicationCategory")
		if m.Name == "" {
			m.Name = payload.Str(app, "name")
		}
		if avg, ok := payload.Float(app, "aggregateRating.ratingValue"); ok {
			m.AverageRating = avg
		}
		if n, ok := payload.Int(app, "aggregateRating.ratingCount"); ok {
			m.RatingCount = int(n)
		}
		m.Price = priceLabel(app)
	}
	if m.Description == "" {
		m.Description = metaContent(doc, `meta[name="description"]`)
	}

	m.Name = orDefault(m.Name, PlaceholderName)
	m.Icon = orDefault(m.Icon, PlaceholderIcon)
	m.Developer = orDefault(m.Developer, PlaceholderDeveloper)
	m.Description = orDefault(m.Description, PlaceholderDescription)
	m.Price = orDefault(m.Price, PlaceholderPrice)
	m.Genre = orDefault(m.Genre, PlaceholderGenre)
	return m, nil
}

// softwareApplication returns the first JSON-LD node typed SoftwareApplication.
func softwareApplication(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		nodes := payload.Items(v, "")
		nodes = append(nodes, payload.Items(v, "@graph")...)
		for _, n := range nodes {
			obj, ok := n.(map[string]any)
			if ok && hasType(obj, "SoftwareApplication") {
				found = obj
				return false
			}
		}
		return true
	})
	return found
}

func hasType(obj map[string]any, want string) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == want
	case []any:
		for _, x := range t {
			if s, _ := x.(string); s == want {
				return true
			}
		}
	}
	return false
}

func priceLabel(app map[string]any) string {
	price := payload.FirstStr(app, "offers.0.price", "offers.price")
	if price == "" {
		if f, ok := payload.Float(app, "offers.0.price", "offers.price"); ok {
			price = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	if price == "" {
		return ""
	}
	if price == "0" {
		return "Free"
	}
	if cur := payload.FirstStr(app, "offers.0.priceCurrency", "offers.priceCurrency"); cur != "" {
		return price + " " + cur
	}
	return price
}

// ParseReviews extracts reviews from the embedded data blob registered under
// key. Anything unexpected yields an empty list.
func ParseReviews(html, key string, fetchedAt time.Time) []domain.Review {
	if key == "" {
		key = DefaultReviewsKey
	}
	var blob string
	for _, body := range strings.Split(html, callbackMarker)[1:] {
		if m := callbackRe.FindStringSubmatch(body); m != nil && m[1] == key {
			blob = m[2]
			break
		}
	}
	if blob == "" {
		return []domain.Review{}
	}

	var data any
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return []domain.Review{}
	}
	list, ok := payload.Lookup(data, "0").([]any)
	if !ok {
		return []domain.Review{}
	}

	out := make([]domain.Review, 0, len(list))
	for _, item := range list {
		if _, ok := item.([]any); !ok {
			continue
		}
		rating, _ := payload.Int(item, "2")
		author := payload.Str(item, "1.0")
		if author == "" {
			author = domain.DefaultAuthor
		}
		date := fetchedAt
		if secs, ok := payload.Int(item, "5.0"); ok && secs > 0 {
			date = time.Unix(secs, 0).UTC()
		}

		r := domain.Review{
			ID:      payload.Str(item, "0"),
			Author:  author,
			Avatar:  payload.Str(item, "1.1.3.2"),
			Rating:  domain.ClampRating(int(rating)),
			Content: payload.Str(item, "4"),
			Version: payload.Str(item, "10"),
			RawDate: date,
		}
		if reply := payload.Str(item, "7.1"); reply != "" {
			r.DeveloperResponse = &reply
			if secs, ok := payload.Int(item, "7.2.0"); ok && secs > 0 {
				d := time.Unix(secs, 0).UTC().Format(time.DateOnly)
				r.DeveloperResponseDate = &d
			}
		}
		out = append(out, r)
	}
	return out
}

func metaContent(doc *goquery.Document, sel string) string {
	return attr(doc.Find(sel).First(), "content")
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

func firstText(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
