package analytics

import (
	"fmt"

	"appinsight/internal/domain"
)

type phrases struct {
	total       string
	ratio       string
	bug         string
	ads         string
	recBug      string
	recAds      string
	recFallback string
}

var summaryText = map[domain.Language]phrases{
	domain.LangEN: {
		total:       "Analyzed **%d reviews** based on selection.",
		ratio:       "Satisfaction rate for this period is **%d%%**.",
		bug:         "**Technical issues** (%d complaints) are on the agenda.",
		ads:         "**Ad** complaints (%d) stand out.",
		recBug:      "Investigate technical bugs.",
		recAds:      "Review the ad strategy.",
		recFallback: "Maintain user engagement.",
	},
	domain.LangTR: {
		total:       "Seçilen kriterlere göre **%d adet yorum** analiz edildi.",
		ratio:       "Bu dönemdeki memnuniyet oranı **%%%d**.",
		bug:         "**Teknik sorunlar** (%d şikayet) gündemde.",
		ads:         "**Reklam** şikayetleri (%d adet) dikkat çekiyor.",
		recBug:      "Teknik hataları inceleyin.",
		recAds:      "Reklam stratejisini gözden geçirin.",
		recFallback: "Kullanıcı etkileşimini sürdürün.",
	},
}

// summarize builds the summary lines and recommendations for r, which must
// already carry its counts.
func summarize(r *domain.AnalysisResult, insight string, lang domain.Language) ([]string, []string) {
	p, ok := summaryText[lang]
	if !ok {
		p = summaryText[domain.LangEN]
	}

	summary := []string{fmt.Sprintf(p.total, r.Total)}
	if insight != "" {
		summary = append(summary, insight)
	}
	summary = append(summary, fmt.Sprintf(p.ratio, r.SatisfactionRatio))

	var recs []string
	if n := r.TopicCounts[domain.TopicBug]; n > 0 {
		summary = append(summary, fmt.Sprintf(p.bug, n))
		recs = append(recs, p.recBug)
	}
	if n := r.TopicCounts[domain.TopicAds]; n > 0 {
		summary = append(summary, fmt.Sprintf(p.ads, n))
		recs = append(recs, p.recAds)
	}
	if len(recs) == 0 {
		recs = append(recs, p.recFallback)
	}
	return summary, recs
}
