package domain

import "time"

// ReviewStore is the immutable result of one successful acquisition.
// Every accessor returns copies; nothing downstream can mutate it.
type ReviewStore struct {
	meta          AppMetadata
	reviews       []Review
	reviewCountry string
	fetchedAt     time.Time
}

func NewReviewStore(meta AppMetadata, reviews []Review, reviewCountry string, fetchedAt time.Time) *ReviewStore {
	cp := make([]Review, len(reviews))
	copy(cp, reviews)
	return &ReviewStore{meta: meta, reviews: cp, reviewCountry: reviewCountry, fetchedAt: fetchedAt}
}

func (s *ReviewStore) Metadata() AppMetadata { return s.meta }

func (s *ReviewStore) Reviews() []Review {
	out := make([]Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

func (s *ReviewStore) Review(i int) (Review, bool) {
	if i < 0 || i >= len(s.reviews) {
		return Review{}, false
	}
	return s.reviews[i], true
}

func (s *ReviewStore) Len() int { return len(s.reviews) }

// ReviewCountry is the country the reviews were actually fetched for; it
// differs from Metadata().Country after a fallback.
func (s *ReviewStore) ReviewCountry() string { return s.reviewCountry }

func (s *ReviewStore) FetchedAt() time.Time { return s.fetchedAt }
