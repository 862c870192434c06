package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRelayExhausted   = errors.New("all relay sources exhausted")
	ErrAppNotFound      = errors.New("app not found")
	ErrParse            = errors.New("parse failure")
	ErrInvalidInput     = errors.New("unrecognised app url or identifier")
	ErrInsufficientData = errors.New("insufficient data")
	ErrSessionNotFound  = errors.New("session not found")
)

// StrategyFailure records why one relay strategy did not produce data.
type StrategyFailure struct {
	Strategy string
	Err      error
}

// RelayExhaustedError is returned when every relay strategy failed for one
// logical request. The per-strategy details are for logs only.
type RelayExhaustedError struct {
	Target   string
	Failures []StrategyFailure
}

func (e *RelayExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Strategy, f.Err))
	}
	return fmt.Sprintf("%s for %s (%s)", ErrRelayExhausted, e.Target, strings.Join(parts, "; "))
}

func (e *RelayExhaustedError) Is(target error) bool { return target == ErrRelayExhausted }

var publicMessages = map[Language]string{
	LangEN: "Failed to fetch data. Check the link.",
	LangTR: "Veri çekilemedi. Linki kontrol edin.",
}

// PublicMessage is the single user-facing text for any acquisition failure.
// It never mentions which relay or parser failed.
func PublicMessage(lang Language) string {
	if m, ok := publicMessages[lang]; ok {
		return m
	}
	return publicMessages[LangEN]
}
