package app

import (
	"errors"
	"time"

	"appinsight/internal/analytics"
	"appinsight/internal/domain"
)

// Report is everything derived from one store for one language and range.
type Report struct {
	App               domain.AppMetadata     `json:"app"`
	ReviewCountry     string                 `json:"reviewCountry"`
	Language          domain.Language        `json:"language"`
	Range             domain.DateRange       `json:"range"`
	Reviews           int                    `json:"reviews"`
	Analysis          *domain.AnalysisResult `json:"analysis"`
	Trend             []domain.TrendPoint    `json:"trend"`
	TrendInsufficient bool                   `json:"trendInsufficient"`
	Distribution      analytics.Distribution `json:"distribution"`
}

// BuildReport recomputes every derived value from the store.
func BuildReport(store *domain.ReviewStore, lang domain.Language, r domain.DateRange, loc *time.Location) Report {
	meta := store.Metadata()
	filtered := analytics.Filter(store.Reviews(), r)

	rep := Report{
		App:           meta,
		ReviewCountry: store.ReviewCountry(),
		Language:      lang,
		Range:         r,
		Reviews:       len(filtered),
		Analysis:      analytics.Analyze(filtered, lang, meta.Stats()),
		Distribution:  analytics.RatingDistribution(filtered),
	}
	trend, err := analytics.DailyTrend(filtered, loc)
	if errors.Is(err, domain.ErrInsufficientData) {
		rep.TrendInsufficient = true
		trend = []domain.TrendPoint{}
	}
	rep.Trend = trend
	return rep
}
