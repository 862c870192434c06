package analytics

import (
	"math"
	"sort"
	"time"

	"appinsight/internal/domain"
)

// DailyTrend averages ratings per calendar day in loc, oldest first. Fewer
// than two distinct days is not a trend and yields ErrInsufficientData.
func DailyTrend(reviews []domain.Review, loc *time.Location) ([]domain.TrendPoint, error) {
	if loc == nil {
		loc = time.UTC
	}
	type bucket struct{ sum, count int }
	days := map[string]*bucket{}
	for _, r := range reviews {
		key := r.RawDate.In(loc).Format(time.DateOnly)
		b, ok := days[key]
		if !ok {
			b = &bucket{}
			days[key] = b
		}
		b.sum += r.Rating
		b.count++
	}
	if len(days) < 2 {
		return nil, domain.ErrInsufficientData
	}

	out := make([]domain.TrendPoint, 0, len(days))
	for day, b := range days {
		avg := float64(b.sum) / float64(b.count)
		out = append(out, domain.TrendPoint{
			Date:    day,
			Average: math.Round(avg*100) / 100,
			Count:   b.count,
		})
	}
	// YYYY-MM-DD sorts chronologically as text
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
