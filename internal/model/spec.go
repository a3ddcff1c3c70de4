package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpec reports a session spec that cannot be normalized.
var ErrInvalidSpec = errors.New("invalid session spec")

// Frequency controls how often a presentation transform is applied.
type Frequency string

// Supported transform frequencies.
const (
	Never     Frequency = "never"
	Sometimes Frequency = "sometimes"
	Often     Frequency = "often"
)

// Probability maps a frequency to a per-word probability.
func (f Frequency) Probability() float64 {
	switch f {
	case Sometimes:
		return 0.15
	case Often:
		return 0.35
	default:
		return 0
	}
}

// ParseFrequency parses never|sometimes|often.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case Never, Sometimes, Often:
		return f, nil
	case "":
		return Never, nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q (want never, sometimes or often)", ErrInvalidSpec, s)
	}
}

// Session defaults.
const (
	DefaultSessionSize   = 20
	DefaultStrugglePct   = 0.30
	DefaultNewPct        = 0.50
	DefaultConfidencePct = 0.20
	DefaultBoosters      = 2
)

// SessionSpec describes how a practice session should be composed.
type SessionSpec struct {
	Size           int
	Capitalization Frequency
	Punctuation    Frequency
	StrugglePct    float64
	NewPct         float64
	ConfidencePct  float64
	Boosters       int
}

// DefaultSessionSpec returns the nominal 30/50/20 spec.
func DefaultSessionSpec() SessionSpec {
	return SessionSpec{
		Size:           DefaultSessionSize,
		Capitalization: Never,
		Punctuation:    Never,
		StrugglePct:    DefaultStrugglePct,
		NewPct:         DefaultNewPct,
		ConfidencePct:  DefaultConfidencePct,
		Boosters:       DefaultBoosters,
	}
}

// Normalize validates the session spec and rescales the bucket percentages so they
// sum to 1. Percentages may be given as fractions or as 0-100 values.
func (s SessionSpec) Normalize() (SessionSpec, error) {
	if s.Size <= 0 {
		return SessionSpec{}, fmt.Errorf("%w: size must be > 0", ErrInvalidSpec)
	}
	if s.Boosters < 0 {
		return SessionSpec{}, fmt.Errorf("%w: boosters must be >= 0", ErrInvalidSpec)
	}
	if s.StrugglePct < 0 || s.NewPct < 0 || s.ConfidencePct < 0 {
		return SessionSpec{}, fmt.Errorf("%w: bucket percentages must be >= 0", ErrInvalidSpec)
	}
	var err error
	if s.Capitalization, err = ParseFrequency(string(s.Capitalization)); err != nil {
		return SessionSpec{}, err
	}
	if s.Punctuation, err = ParseFrequency(string(s.Punctuation)); err != nil {
		return SessionSpec{}, err
	}
	total := s.StrugglePct + s.NewPct + s.ConfidencePct
	if total == 0 {
		s.StrugglePct = DefaultStrugglePct
		s.NewPct = DefaultNewPct
		s.ConfidencePct = DefaultConfidencePct
		return s, nil
	}
	s.StrugglePct /= total
	s.NewPct /= total
	s.ConfidencePct /= total
	return s, nil
}

// ErrSessionFinished reports a session id whose results were already recorded.
var ErrSessionFinished = errors.New("session already finished")
