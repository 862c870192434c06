package relay

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"appinsight/internal/domain"
)

// Mode declares how a relay shapes its response body.
type Mode string

const (
	// ModeRaw relays pass the origin body through untouched.
	ModeRaw Mode = "raw"
	// ModeWrapped relays return {"contents": "<origin body>", "status": {...}}.
	ModeWrapped Mode = "wrapped"
)

const placeholder = "{url}"

// cacheBustParam is appended to every relay request so intermediaries never
// serve a stale copy.
const cacheBustParam = "_cb"

var (
	errEmpty  = errors.New("empty payload")
	errDecode = errors.New("undecodable payload")
)

// Strategy is one relay endpoint. URL must contain {url}, which is replaced
// by the query-escaped origin URL.
type Strategy struct {
	Name string
	URL  string
	Mode Mode
}

func (s Strategy) validate() error {
	if s.Name == "" {
		return errors.New("relay strategy needs a name")
	}
	if !strings.Contains(s.URL, placeholder) {
		return fmt.Errorf("relay %s: url template lacks %s", s.Name, placeholder)
	}
	if s.Mode != ModeRaw && s.Mode != ModeWrapped {
		return fmt.Errorf("relay %s: unknown mode %q", s.Name, s.Mode)
	}
	return nil
}

// RequestURL builds the relay URL for target with a cache-busting parameter.
func (s Strategy) RequestURL(target string, now time.Time) string {
	u := strings.Replace(s.URL, placeholder, url.QueryEscape(target), 1)
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + cacheBustParam + "=" + strconv.FormatInt(now.UnixMilli(), 10)
}

type envelope struct {
	Contents json.RawMessage `json:"contents"`
	Status   *struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

// Decode turns a successful response body into a Payload according to Mode.
func (s Strategy) Decode(body []byte) (domain.Payload, error) {
	if s.Mode != ModeWrapped {
		return decodeText(string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Payload{}, fmt.Errorf("%w: envelope: %v", errDecode, err)
	}
	if env.Status != nil && env.Status.HTTPCode >= 400 {
		return domain.Payload{}, fmt.Errorf("%w: origin status %d", errEmpty, env.Status.HTTPCode)
	}
	if len(env.Contents) == 0 || string(env.Contents) == "null" {
		return domain.Payload{}, fmt.Errorf("%w: no contents", errEmpty)
	}

	var inner string
	if err := json.Unmarshal(env.Contents, &inner); err != nil {
		// contents already holds JSON rather than a string
		return decodeText(string(env.Contents))
	}
	return decodeText(inner)
}

// decodeText tries JSON first and falls back to the text itself.
func decodeText(s string) (domain.Payload, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return domain.Payload{}, errEmpty
	}
	var v any
	if err := json.Unmarshal([]byte(t), &v); err == nil {
		if v == nil {
			return domain.Payload{}, fmt.Errorf("%w: null", errEmpty)
		}
		if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
			return domain.Payload{}, fmt.Errorf("%w: empty string", errEmpty)
		}
		return domain.Payload{Data: v}, nil
	}
	return domain.Payload{Text: s}, nil
}
