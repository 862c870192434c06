package analytics

import (
	"fmt"

	"appinsight/internal/domain"
)

// silentGap is how far the store average and the sample average must drift
// apart before it is worth mentioning.
const silentGap = 0.5

// SilentMajority compares the store-wide average with the sample average.
// The store average covers all time while the sample may be date filtered.
// It returns "" when there is nothing to say.
func SilentMajority(globalAvg, sampleAvg float64, lang domain.Language) string {
	if globalAvg <= 0 {
		return ""
	}
	gap := globalAvg - sampleAvg
	switch {
	case gap > silentGap:
		if lang == domain.LangTR {
			return fmt.Sprintf("**Dikkat Çekici Fark:** Genel mağaza puanı (%.1f), seçili dönemdeki yorum ortalamasından (%.1f) yüksek. Sessiz çoğunluk memnun görünüyor.", globalAvg, sampleAvg)
		}
		return fmt.Sprintf("**Notable Gap:** Store rating (%.1f) is higher than selected reviews avg (%.1f). Silent majority seems satisfied.", globalAvg, sampleAvg)
	case gap < -silentGap:
		if lang == domain.LangTR {
			return fmt.Sprintf("**Yükseliş Trendi:** Seçili dönemdeki yorumlar (%.1f), genel ortalamadan (%.1f) daha olumlu.", sampleAvg, globalAvg)
		}
		return fmt.Sprintf("**Upward Trend:** Selected reviews (%.1f) are more positive than the global average (%.1f).", sampleAvg, globalAvg)
	default:
		return ""
	}
}
