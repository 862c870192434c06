package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Target identifies one app on one platform.
type Target struct {
	Platform Platform
	AppID    string
	Country  string // taken from the link when it carries one, else empty
}

var (
	reAppleID      = regexp.MustCompile(`/id(\d+)(?:[/?#]|$)`)
	reAppleCountry = regexp.MustCompile(`^/([a-z]{2})/app/`)
	reNumericID    = regexp.MustCompile(`^\d+$`)
	rePackageName  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
)

// ParseTarget recognises App Store links, Play Store links, bare numeric
// App Store ids and Android package names.
func ParseTarget(raw string) (Target, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Target{}, fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	switch {
	case strings.Contains(s, "apps.apple.com") || strings.Contains(s, "itunes.apple.com"):
		m := reAppleID.FindStringSubmatch(s)
		if m == nil {
			return Target{}, fmt.Errorf("%w: %q has no app id", ErrInvalidInput, s)
		}
		t := Target{Platform: PlatformIOS, AppID: m[1]}
		if u, err := url.Parse(s); err == nil {
			if cm := reAppleCountry.FindStringSubmatch(u.Path); cm != nil {
				t.Country = cm[1]
			}
		}
		return t, nil

	case strings.Contains(s, "play.google.com"):
		u, err := url.Parse(s)
		if err != nil {
			return Target{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		id := u.Query().Get("id")
		if id == "" {
			return Target{}, fmt.Errorf("%w: %q has no id parameter", ErrInvalidInput, s)
		}
		return Target{Platform: PlatformAndroid, AppID: id, Country: strings.ToLower(u.Query().Get("gl"))}, nil

	case reNumericID.MatchString(s):
		return Target{Platform: PlatformIOS, AppID: s}, nil

	case rePackageName.MatchString(s):
		return Target{Platform: PlatformAndroid, AppID: s}, nil
	}
	return Target{}, fmt.Errorf("%w: %q", ErrInvalidInput, s)
}
