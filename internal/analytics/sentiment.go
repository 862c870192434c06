package analytics

type Sentiment int

const (
	Neutral Sentiment = iota
	Positive
	Negative
)

// Classify buckets a star rating: 4 and up is positive, 2 and below
// negative (an unparsed 0 included), 3 neutral.
func Classify(rating int) Sentiment {
	switch {
	case rating >= 4:
		return Positive
	case rating <= 2:
		return Negative
	default:
		return Neutral
	}
}
