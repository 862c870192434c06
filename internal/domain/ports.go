package domain

import "context"

// Payload is what a relay hands back after decoding: structured JSON when the
// body parsed, otherwise the raw text.
type Payload struct {
	Data any    `json:"data,omitempty"`
	Text string `json:"text,omitempty"`
}

func (p Payload) Structured() bool { return p.Data != nil }

// Empty reports a payload that carries nothing usable.
func (p Payload) Empty() bool { return p.Data == nil && p.Text == "" }

type Fetcher interface {
	Fetch(ctx context.Context, target string) (Payload, error)
}

// Source acquires data for one platform. Acquire returns metadata and the
// reviews for the same country; Reviews re-queries reviews only and is used
// for the country fallback.
type Source interface {
	Platform() Platform
	Acquire(ctx context.Context, appID, country string) (AppMetadata, []Review, error)
	Reviews(ctx context.Context, appID, country string) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
