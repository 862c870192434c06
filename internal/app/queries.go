package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"appinsight/internal/analytics"
	"appinsight/internal/domain"
	"appinsight/internal/reply"
)

var (
	// ErrSuperseded is returned to an acquisition that finished after a newer
	// one was started for the same session. Its result is dropped.
	ErrSuperseded     = errors.New("acquisition superseded")
	ErrReviewNotFound = errors.New("review not found")
)

type Acquirer interface {
	Acquire(ctx context.Context, raw, country string) (*domain.ReviewStore, error)
}

type session struct {
	id         string
	url        string
	country    string
	generation uint64
	store      *domain.ReviewStore
	updatedAt  time.Time
}

// SessionSummary describes a session without its derived values.
type SessionSummary struct {
	ID            string             `json:"id"`
	App           domain.AppMetadata `json:"app"`
	ReviewCount   int                `json:"reviewCount"`
	ReviewCountry string             `json:"reviewCountry"`
	FetchedAt     time.Time          `json:"fetchedAt"`
	Generation    uint64             `json:"generation"`
}

// View selects what a read request wants to see.
type View struct {
	Lang   domain.Language
	Tone   reply.Tone
	Preset string
	Start  string
	End    string
}

type ReviewView struct {
	Index  int              `json:"index"`
	Review domain.Review    `json:"review"`
	Reply  reply.Suggestion `json:"reply"`
}

// SessionService keeps acquired stores in memory. Reads never cache derived
// values: every call filters and analyses the store again.
type SessionService struct {
	acq     Acquirer
	replies *reply.Selector
	loc     *time.Location
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionService(acq Acquirer, replies *reply.Selector, loc *time.Location) *SessionService {
	if replies == nil {
		replies = reply.NewSelector(nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SessionService{
		acq:      acq,
		replies:  replies,
		loc:      loc,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

// Create acquires raw and stores it under a new session id.
func (s *SessionService) Create(ctx context.Context, raw, country string) (SessionSummary, error) {
	store, err := s.acq.Acquire(ctx, raw, country)
	if err != nil {
		return SessionSummary{}, err
	}
	sess := &session{
		id:         uuid.NewString(),
		url:        raw,
		country:    country,
		generation: 1,
		store:      store,
		updatedAt:  s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Info().Str("session", sess.id).Int("reviews", store.Len()).Msg("session created")
	return summarize(sess), nil
}

// Reacquire replaces the session's store. An empty raw reuses the session's
// link. If another Reacquire starts before this one finishes, this one's
// result is discarded and ErrSuperseded returned.
func (s *SessionService) Reacquire(ctx context.Context, id, raw, country string) (SessionSummary, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return SessionSummary{}, domain.ErrSessionNotFound
	}
	sess.generation++
	gen := sess.generation
	if raw == "" {
		raw = sess.url
	}
	if country == "" && raw == sess.url {
		country = sess.country
	}
	s.mu.Unlock()

	store, err := s.acq.Acquire(ctx, raw, country)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions[id]
	if !ok {
		return SessionSummary{}, domain.ErrSessionNotFound
	}
	if cur.generation != gen {
		log.Info().Str("session", id).Uint64("generation", gen).Msg("stale acquisition discarded")
		return SessionSummary{}, ErrSuperseded
	}
	if err != nil {
		return SessionSummary{}, err
	}
	cur.url, cur.country, cur.store, cur.updatedAt = raw, country, store, s.now()
	return summarize(cur), nil
}

func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionService) Get(id string) (SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return SessionSummary{}, domain.ErrSessionNotFound
	}
	return summarize(sess), nil
}

// Analysis recomputes the report for the session under v.
func (s *SessionService) Analysis(id string, v View) (Report, error) {
	store, err := s.store(id)
	if err != nil {
		return Report{}, err
	}
	r, err := analytics.ResolveRange(v.Preset, v.Start, v.End, s.now(), s.loc)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(store, v.Lang, r, s.loc), nil
}

// Reviews lists the reviews inside v's range, each with a suggested reply.
// Index is the review's position in the store.
func (s *SessionService) Reviews(id string, v View) ([]ReviewView, error) {
	store, err := s.store(id)
	if err != nil {
		return nil, err
	}
	r, err := analytics.ResolveRange(v.Preset, v.Start, v.End, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	in := analytics.Within(r)
	out := []ReviewView{}
	for i, rv := range store.Reviews() {
		if !in(rv.RawDate) {
			continue
		}
		out = append(out, ReviewView{Index: i, Review: rv, Reply: s.replies.Suggest(rv, v.Tone, v.Lang)})
	}
	return out, nil
}

func (s *SessionService) Reply(id string, index int, v View) (reply.Suggestion, error) {
	store, err := s.store(id)
	if err != nil {
		return reply.Suggestion{}, err
	}
	rv, ok := store.Review(index)
	if !ok {
		return reply.Suggestion{}, fmt.Errorf("%w: index %d", ErrReviewNotFound, index)
	}
	return s.replies.Suggest(rv, v.Tone, v.Lang), nil
}

func (s *SessionService) store(id string) (*domain.ReviewStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess.store, nil
}

func summarize(sess *session) SessionSummary {
	return SessionSummary{
		ID:            sess.id,
		App:           sess.store.Metadata(),
		ReviewCount:   sess.store.Len(),
		ReviewCountry: sess.store.ReviewCountry(),
		FetchedAt:     sess.store.FetchedAt(),
		Generation:    sess.generation,
	}
}
