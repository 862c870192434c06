package domain

import "time"

// DefaultAuthor is used when a source omits the reviewer name.
const DefaultAuthor = "User"

type Review struct {
	ID                    string    `json:"id,omitempty"`
	Author                string    `json:"author"`
	Avatar                string    `json:"avatar,omitempty"`
	Rating                int       `json:"rating"` // 1..5, 0 when unparsable
	Title                 string    `json:"title"`
	Content               string    `json:"content"`
	Version               string    `json:"version"`
	RawDate               time.Time `json:"rawDate"`
	DeveloperResponse     *string   `json:"developerResponse,omitempty"`
	DeveloperResponseDate *string   `json:"developerResponseDate,omitempty"`
}

// Text is the lower-cased title and content joined by a space; every
// keyword heuristic runs over it.
func (r Review) Text() string {
	return lowerJoin(r.Title, r.Content)
}

// ClampRating maps anything outside 1..5 to 0.
func ClampRating(n int) int {
	if n < 1 || n > 5 {
		return 0
	}
	return n
}
