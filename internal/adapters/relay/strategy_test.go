package relay

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRequestURL_QueryJoin(t *testing.T) {
	now := time.UnixMilli(42)
	s := Strategy{Name: "p", URL: "https://proxy.example/get?url={url}", Mode: ModeRaw}
	got := s.RequestURL("https://a.b/c?d=1", now)
	if got != "https://proxy.example/get?url=https%3A%2F%2Fa.b%2Fc%3Fd%3D1&_cb=42" {
		t.Fatalf("unexpected url %q", got)
	}

	s.URL = "https://proxy.example/{url}"
	if got := s.RequestURL("x", now); !strings.HasSuffix(got, "/x?_cb=42") {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestDecode_Wrapped(t *testing.T) {
	s := Strategy{Name: "w", URL: "{url}", Mode: ModeWrapped}

	p, err := s.Decode([]byte(`{"contents":"<html>hi</html>"}`))
	if err != nil || p.Text != "<html>hi</html>" {
		t.Fatalf("expected text payload, got %+v %v", p, err)
	}

	p, err = s.Decode([]byte(`{"contents":{"feed":{}}}`))
	if err != nil || !p.Structured() {
		t.Fatalf("expected structured payload, got %+v %v", p, err)
	}

	for _, body := range []string{`{"contents":"null"}`, `{"contents":"\"\""}`, `{"contents":""}`} {
		if _, err := s.Decode([]byte(body)); !errors.Is(err, errEmpty) {
			t.Fatalf("%s: expected errEmpty, got %v", body, err)
		}
	}
	if _, err := s.Decode([]byte(`<html>`)); !errors.Is(err, errDecode) {
		t.Fatalf("expected errDecode for non-envelope, got %v", err)
	}
}

func TestDecode_Raw(t *testing.T) {
	s := Strategy{Name: "r", URL: "{url}", Mode: ModeRaw}
	p, err := s.Decode([]byte(`[1,2]`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if arr, ok := p.Data.([]any); !ok || len(arr) != 2 {
		t.Fatalf("unexpected payload %+v", p)
	}
	for _, body := range []string{"", `""`, `"  "`, "null"} {
		if _, err := s.Decode([]byte(body)); !errors.Is(err, errEmpty) {
			t.Fatalf("%q: expected errEmpty, got %v", body, err)
		}
	}
}
