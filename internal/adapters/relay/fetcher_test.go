package relay_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"appinsight/internal/adapters/relay"
	"appinsight/internal/domain"
)

const origin = "https://itunes.apple.com/lookup?id=1&country=tr"

type hits struct {
	mu sync.Mutex
	m  map[string]int
}

func (h *hits) add(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.m == nil {
		h.m = map[string]int{}
	}
	h.m[path]++
}

func (h *hits) get(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m[path]
}

// relayServer answers each path with the given status and body.
func relayServer(t *testing.T, h *hits, routes map[string]func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.add(r.URL.Path)
		fn, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fn(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func body(status int, s string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(s))
	}
}

func newFetcher(t *testing.T, ss []relay.Strategy, opts ...relay.Option) *relay.Fetcher {
	t.Helper()
	opts = append([]relay.Option{relay.WithRate(100), relay.WithTimeout(2 * time.Second)}, opts...)
	f, err := relay.New(ss, opts...)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return f
}

func TestFetch_FirstSuccessWins(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/a": body(200, `{"contents":"{\"resultCount\":1}","status":{"http_code":200}}`),
		"/b": body(200, `{"resultCount":2}`),
	})
	f := newFetcher(t, []relay.Strategy{
		{Name: "a", URL: ts.URL + "/a?url={url}", Mode: relay.ModeWrapped},
		{Name: "b", URL: ts.URL + "/b?url={url}", Mode: relay.ModeRaw},
	})

	p, err := f.Fetch(context.Background(), origin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := p.Data.(map[string]any)
	if !ok || m["resultCount"] != 1.0 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if h.get("/b") != 0 {
		t.Fatalf("second relay must not be called, got %d hits", h.get("/b"))
	}
}

func TestFetch_FallsThroughEmptyAndFailing(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/null":  body(200, `{"contents":null}`),
		"/blank": body(200, "   "),
		"/down":  body(502, "bad gateway"),
		"/html":  body(200, "<html><h1>App</h1></html>"),
	})
	f := newFetcher(t, []relay.Strategy{
		{Name: "null", URL: ts.URL + "/null?url={url}", Mode: relay.ModeWrapped},
		{Name: "blank", URL: ts.URL + "/blank?url={url}", Mode: relay.ModeRaw},
		{Name: "down", URL: ts.URL + "/down?url={url}", Mode: relay.ModeRaw},
		{Name: "html", URL: ts.URL + "/html?url={url}", Mode: relay.ModeRaw},
	})

	p, err := f.Fetch(context.Background(), origin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Structured() || !strings.Contains(p.Text, "<h1>App</h1>") {
		t.Fatalf("expected raw html text, got %+v", p)
	}
	for _, path := range []string{"/null", "/blank", "/down", "/html"} {
		if h.get(path) != 1 {
			t.Fatalf("expected one call to %s, got %d", path, h.get(path))
		}
	}
}

func TestFetch_EmptyJSONStringFallsThrough(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/quoted":  body(200, `""`),
		"/wrapped": body(200, `{"contents":"\"\""}`),
		"/ok":      body(200, `{"resultCount":1,"results":[{}]}`),
	})
	f := newFetcher(t, []relay.Strategy{
		{Name: "quoted", URL: ts.URL + "/quoted?url={url}", Mode: relay.ModeRaw},
		{Name: "wrapped", URL: ts.URL + "/wrapped?url={url}", Mode: relay.ModeWrapped},
		{Name: "ok", URL: ts.URL + "/ok?url={url}", Mode: relay.ModeRaw},
	})

	p, err := f.Fetch(context.Background(), origin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m, ok := p.Data.(map[string]any); !ok || m["resultCount"] != 1.0 {
		t.Fatalf("expected the third relay's payload, got %+v", p)
	}
	if h.get("/ok") != 1 {
		t.Fatalf("expected the chain to reach the last relay")
	}
}

func TestFetch_WrappedOriginErrorIsFailure(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/w": body(200, `{"contents":"not found","status":{"http_code":404}}`),
	})
	f := newFetcher(t, []relay.Strategy{{Name: "w", URL: ts.URL + "/w?url={url}", Mode: relay.ModeWrapped}})

	_, err := f.Fetch(context.Background(), origin)
	if !errors.Is(err, domain.ErrRelayExhausted) {
		t.Fatalf("expected relay exhaustion, got %v", err)
	}
}

func TestFetch_AllFailReportsEveryStrategy(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/1": body(500, ""),
		"/2": body(200, `{"contents":""}`),
		"/3": body(200, ""),
		"/4": body(200, "null"),
	})
	var ss []relay.Strategy
	for _, n := range []string{"1", "2", "3", "4"} {
		mode := relay.ModeRaw
		if n == "2" {
			mode = relay.ModeWrapped
		}
		ss = append(ss, relay.Strategy{Name: n, URL: ts.URL + "/" + n + "?url={url}", Mode: mode})
	}
	f := newFetcher(t, ss)

	_, err := f.Fetch(context.Background(), origin)
	if !errors.Is(err, domain.ErrRelayExhausted) {
		t.Fatalf("expected ErrRelayExhausted, got %v", err)
	}
	var ex *domain.RelayExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected *RelayExhaustedError, got %T", err)
	}
	if len(ex.Failures) != 4 {
		t.Fatalf("expected 4 failures, got %d", len(ex.Failures))
	}
	if ex.Failures[0].Strategy != "1" || ex.Failures[3].Strategy != "4" {
		t.Fatalf("failures out of order: %+v", ex.Failures)
	}
}

func TestFetch_RequestCarriesEscapedTargetAndCacheBuster(t *testing.T) {
	var gotURL, gotCB string
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/r": func(w http.ResponseWriter, r *http.Request) {
			gotURL = r.URL.Query().Get("url")
			gotCB = r.URL.Query().Get("_cb")
			_, _ = w.Write([]byte(`{"ok":true}`))
		},
	})
	fixed := time.UnixMilli(1700000000123)
	f := newFetcher(t,
		[]relay.Strategy{{Name: "r", URL: ts.URL + "/r?url={url}", Mode: relay.ModeRaw}},
		relay.WithClock(func() time.Time { return fixed }),
	)

	if _, err := f.Fetch(context.Background(), origin); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotURL != origin {
		t.Fatalf("relay saw target %q, want %q", gotURL, origin)
	}
	if gotCB != "1700000000123" {
		t.Fatalf("unexpected cache buster %q", gotCB)
	}
}

func TestFetch_OpenBreakerSkipsRelay(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/dead": body(503, ""),
		"/ok":   body(200, `{"ok":true}`),
	})
	f := newFetcher(t, []relay.Strategy{
		{Name: "dead", URL: ts.URL + "/dead?url={url}", Mode: relay.ModeRaw},
		{Name: "ok", URL: ts.URL + "/ok?url={url}", Mode: relay.ModeRaw},
	}, relay.WithBreaker(2, time.Hour))

	for i := 0; i < 4; i++ {
		if _, err := f.Fetch(context.Background(), origin); err != nil {
			t.Fatalf("call %d: unexpected err: %v", i, err)
		}
	}
	if got := h.get("/dead"); got != 2 {
		t.Fatalf("expected dead relay to be called twice before tripping, got %d", got)
	}
	if got := h.get("/ok"); got != 4 {
		t.Fatalf("expected healthy relay on every call, got %d", got)
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/ok": body(200, `{"ok":true}`),
	})
	f := newFetcher(t, []relay.Strategy{{Name: "ok", URL: ts.URL + "/ok?url={url}", Mode: relay.ModeRaw}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, origin)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int32
}

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = b
	atomic.AddInt32(&c.sets, 1)
	return nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var h hits
	ts := relayServer(t, &h, map[string]func(http.ResponseWriter, *http.Request){
		"/ok": body(200, `{"resultCount":1}`),
	})
	cache := &memCache{}
	f := newFetcher(t,
		[]relay.Strategy{{Name: "ok", URL: ts.URL + "/ok?url={url}", Mode: relay.ModeRaw}},
		relay.WithCache(cache, time.Minute),
	)

	for i := 0; i < 3; i++ {
		p, err := f.Fetch(context.Background(), origin)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if m, _ := p.Data.(map[string]any); m["resultCount"] != 1.0 {
			t.Fatalf("unexpected payload: %+v", p)
		}
	}
	if h.get("/ok") != 1 {
		t.Fatalf("expected a single network call, got %d", h.get("/ok"))
	}
	if atomic.LoadInt32(&cache.sets) != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
}

func TestNew_RejectsBadStrategies(t *testing.T) {
	cases := []relay.Strategy{
		{Name: "", URL: "https://x/?u={url}", Mode: relay.ModeRaw},
		{Name: "a", URL: "https://x/", Mode: relay.ModeRaw},
		{Name: "a", URL: "https://x/?u={url}", Mode: "mirror"},
	}
	for _, s := range cases {
		if _, err := relay.New([]relay.Strategy{s}); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
	if _, err := relay.New(nil); err == nil {
		t.Fatalf("expected error for no strategies")
	}
}
