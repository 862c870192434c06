package analytics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"appinsight/internal/domain"
)

const (
	topKeywords   = 5
	minKeywordLen = 4
)

var stopWords = map[domain.Language]map[string]struct{}{
	domain.LangTR: set("ve", "bir", "bu", "da", "de", "için", "ile", "çok", "ama", "fakat", "daha", "en", "kadar",
		"olarak", "ben", "sen", "o", "biz", "siz", "onlar", "mi", "mı", "mu", "mü", "uygulama", "app"),
	domain.LangEN: set("and", "the", "a", "an", "is", "to", "in", "of", "for", "it", "this", "that", "with", "but",
		"on", "are", "was", "very", "so", "my", "i", "app", "application"),
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// inAlphabet keeps Latin letters, digits and the Turkish letters whatever the
// output language; reviews from a Turkish storefront are often summarised in
// English.
func inAlphabet(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case 'ç', 'ğ', 'ı', 'ö', 'ş', 'ü':
		return true
	}
	return false
}

// Keywords returns up to five most frequent tokens of the reviews' text.
// Ties keep the order in which tokens were first seen.
func Keywords(reviews []domain.Review, lang domain.Language) []string {
	counts := map[string]int{}
	var order []string

	for _, r := range reviews {
		for _, tok := range strings.Fields(r.Text()) {
			clean := strings.Map(func(c rune) rune {
				if inAlphabet(c) {
					return c
				}
				return -1
			}, tok)
			if utf8.RuneCountInString(clean) < minKeywordLen || isStopWord(clean, lang) {
				continue
			}
			if counts[clean] == 0 {
				order = append(order, clean)
			}
			counts[clean]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > topKeywords {
		order = order[:topKeywords]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func isStopWord(w string, lang domain.Language) bool {
	if _, ok := stopWords[lang][w]; ok {
		return true
	}
	_, ok := stopWords[domain.LangEN][w]
	return ok
}
