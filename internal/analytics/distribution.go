package analytics

import "appinsight/internal/domain"

// Distribution counts reviews per star. Stars[0] holds one-star reviews;
// reviews with an unparsable rating land in Unrated.
type Distribution struct {
	Stars   [5]int `json:"stars"`
	Unrated int    `json:"unrated"`
	Max     int    `json:"max"`
}

func RatingDistribution(reviews []domain.Review) Distribution {
	var d Distribution
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			d.Unrated++
			continue
		}
		d.Stars[r.Rating-1]++
	}
	for _, n := range d.Stars {
		if n > d.Max {
			d.Max = n
		}
	}
	return d
}
