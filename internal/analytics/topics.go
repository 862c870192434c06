package analytics

import (
	"strings"

	"appinsight/internal/domain"
)

// TopicKeywords are matched as substrings of the lower-cased review text.
var TopicKeywords = map[domain.Topic][]string{
	domain.TopicPerformance:  {"hız", "yavaş", "donma", "kasma", "performans", "slow", "lag", "freeze", "fast", "smooth"},
	domain.TopicBug:          {"hata", "bug", "açılmıyor", "atıyor", "kapanıyor", "error", "crash", "close", "open"},
	domain.TopicMonetization: {"para", "ücret", "abonelik", "pahalı", "bedava", "money", "price", "subscription", "expensive", "free"},
	domain.TopicAds:          {"reklam", "reklamlar", "video", "ads", "advertisement", "popup"},
}

// TopicsOf returns every topic whose keyword set hits text.
func TopicsOf(text string) []domain.Topic {
	var out []domain.Topic
	for _, t := range domain.Topics {
		if containsAny(text, TopicKeywords[t]) {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
