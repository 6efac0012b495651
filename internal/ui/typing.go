package ui

import (
	"time"
	"unicode/utf8"
)

const (
	// typeRate is the reveal cadence per rune.
	typeRate = 90 * time.Millisecond
	// typePause is the beat before the first rune appears.
	typePause = 400 * time.Millisecond
)

// Typist reveals a line one rune at a time on a fixed schedule. It is a pure
// function of the wall clock: callers pass now and get back the visible
// prefix, so rendering stays deterministic and testable without timers.
type Typist struct {
	text  []rune
	start time.Time
}

// NewTypist starts a reveal of text at start.
func NewTypist(text string, start time.Time) *Typist {
	return &Typist{text: []rune(text), start: start}
}

// Text returns the full line being revealed.
func (t *Typist) Text() string {
	return string(t.text)
}

// Visible returns the portion of the line revealed by now.
func (t *Typist) Visible(now time.Time) string {
	elapsed := now.Sub(t.start) - typePause
	if elapsed < 0 {
		return ""
	}

	n := int(elapsed/typeRate) + 1
	if n > len(t.text) {
		n = len(t.text)
	}
	return string(t.text[:n])
}

// Done reports whether the full line is visible.
func (t *Typist) Done(now time.Time) bool {
	return utf8.RuneCountInString(t.Visible(now)) == len(t.text)
}

// Duration returns how long the full reveal takes from start.
func (t *Typist) Duration() time.Duration {
	if len(t.text) == 0 {
		return typePause
	}
	return typePause + time.Duration(len(t.text)-1)*typeRate
}
