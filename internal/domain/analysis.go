package domain

import (
	"strings"
	"time"
)

type Language string

const (
	LangEN Language = "en"
	LangTR Language = "tr"
)

// ParseLanguage accepts "en", "tr" or any tag starting with them ("tr-TR").
// Everything else is English.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "tr") {
		return LangTR
	}
	return LangEN
}

type Topic string

const (
	TopicBug          Topic = "bug"
	TopicPerformance  Topic = "performance"
	TopicMonetization Topic = "monetization"
	TopicAds          Topic = "ads"
)

// Topics lists every topic in reporting order.
var Topics = []Topic{TopicBug, TopicPerformance, TopicMonetization, TopicAds}

type AnalysisResult struct {
	Total             int           `json:"total"`
	PositiveCount     int           `json:"positiveCount"`
	NegativeCount     int           `json:"negativeCount"`
	NeutralCount      int           `json:"neutralCount"`
	SentimentScore    int           `json:"sentimentScore"`
	SatisfactionRatio int           `json:"satisfactionRatio"`
	SampleAverage     float64       `json:"sampleAverage"`
	TopicCounts       map[Topic]int `json:"topicCounts"`
	TopKeywords       []string      `json:"topKeywords"`
	SummaryPoints     []string      `json:"summaryPoints"`
	Recommendations   []string      `json:"recommendations"`
}

type TrendPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// DateRange bounds are inclusive calendar days; a zero bound is open.
type DateRange struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

func lowerJoin(a, b string) string {
	return strings.ToLower(a + " " + b)
}
