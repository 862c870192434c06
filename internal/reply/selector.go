// Package reply suggests a canned answer for a review. Selection (which
// category a review belongs to) is kept apart from the catalog (what text a
// category maps to), so catalogs can be swapped freely.
package reply

import (
	"strings"

	"appinsight/internal/domain"
)

type Tone string

const (
	ToneFormal     Tone = "formal"
	ToneCasual     Tone = "casual"
	ToneSupportive Tone = "supportive"
)

// ParseTone accepts "support" for supportive; anything unknown is formal.
func ParseTone(s string) Tone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "casual":
		return ToneCasual
	case "supportive", "support":
		return ToneSupportive
	default:
		return ToneFormal
	}
}

type Category string

const (
	CategoryBug      Category = "bug"
	CategoryLogin    Category = "login"
	CategoryUpdate   Category = "update"
	CategoryPricing  Category = "pricing"
	CategoryUI       Category = "ui"
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
)

type rule struct {
	category Category
	keywords []string
}

// rules are evaluated in order; the first hit wins.
var rules = []rule{
	{CategoryBug, []string{"hata", "bug", "crash", "açılmıyor", "atıyor", "error", "fail"}},
	{CategoryLogin, []string{"giriş", "login", "log in", "sign in", "şifre", "password", "hesap", "account", "oturum"}},
	{CategoryUpdate, []string{"güncelleme", "update", "son sürüm", "new version", "yeni sürüm", "downgrade"}},
	{CategoryPricing, []string{"para", "ücret", "pahalı", "abonelik", "fiyat", "money", "price", "expensive", "cost", "subscription"}},
	{CategoryUI, []string{"arayüz", "tasarım", "tema", "design", "interface", "layout", "dark mode", "karanlık mod", "font"}},
}

// Categorize picks the reply category for r. Content flags take precedence
// over the star rating; with no flag, 4 stars and up is positive.
func Categorize(r domain.Review) Category {
	text := r.Text()
	for _, rl := range rules {
		for _, k := range rl.keywords {
			if strings.Contains(text, k) {
				return rl.category
			}
		}
	}
	if r.Rating >= 4 {
		return CategoryPositive
	}
	return CategoryNegative
}

// Suggestion is a selected reply plus the developer's own answer, when the
// store already has one. The two are independent.
type Suggestion struct {
	Category              Category        `json:"category"`
	Tone                  Tone            `json:"tone"`
	Language              domain.Language `json:"language"`
	Text                  string          `json:"text"`
	DeveloperResponse     *string         `json:"developerResponse,omitempty"`
	DeveloperResponseDate *string         `json:"developerResponseDate,omitempty"`
}

type Selector struct {
	catalog Catalog
}

// NewSelector uses DefaultCatalog when c is nil.
func NewSelector(c Catalog) *Selector {
	if c == nil {
		c = DefaultCatalog
	}
	return &Selector{catalog: c}
}

func (s *Selector) Suggest(r domain.Review, tone Tone, lang domain.Language) Suggestion {
	cat := Categorize(r)
	text, lang, tone := s.catalog.lookup(lang, tone, cat)
	if text == "" {
		// a sparse catalog may lack the flagged category
		fallback := CategoryNegative
		if r.Rating >= 4 {
			fallback = CategoryPositive
		}
		text, lang, tone = s.catalog.lookup(lang, tone, fallback)
	}
	author := r.Author
	if author == "" {
		author = domain.DefaultAuthor
	}
	return Suggestion{
		Category:              cat,
		Tone:                  tone,
		Language:              lang,
		Text:                  strings.ReplaceAll(text, "{author}", author),
		DeveloperResponse:     r.DeveloperResponse,
		DeveloperResponseDate: r.DeveloperResponseDate,
	}
}
