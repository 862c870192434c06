// Package analytics derives review statistics: sentiment counts, topic
// prevalence, keywords, the store-vs-sample comparison, a daily trend and the
// star distribution. Everything here is a pure function of its inputs.
package analytics

import (
	"math"

	"appinsight/internal/domain"
)

// Analyze summarizes reviews. It returns nil for an empty list.
func Analyze(reviews []domain.Review, lang domain.Language, store domain.StoreStats) *domain.AnalysisResult {
	if len(reviews) == 0 {
		return nil
	}

	res := &domain.AnalysisResult{
		Total:       len(reviews),
		TopicCounts: make(map[domain.Topic]int, len(domain.Topics)),
	}
	for _, t := range domain.Topics {
		res.TopicCounts[t] = 0
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		switch Classify(r.Rating) {
		case Positive:
			res.PositiveCount++
		case Negative:
			res.NegativeCount++
		}
		for _, t := range TopicsOf(r.Text()) {
			res.TopicCounts[t]++
		}
	}

	res.NeutralCount = res.Total - res.PositiveCount - res.NegativeCount
	res.SentimentScore = res.PositiveCount - res.NegativeCount
	res.SatisfactionRatio = int(math.Round(float64(res.PositiveCount) / float64(res.Total) * 100))
	res.SampleAverage = float64(sum) / float64(res.Total)
	res.TopKeywords = Keywords(reviews, lang)

	insight := SilentMajority(store.AverageRating, res.SampleAverage, lang)
	res.SummaryPoints, res.Recommendations = summarize(res, insight, lang)
	return res
}
