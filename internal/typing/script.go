// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typing paces the reveal of an assistant reply.
//
// A Script turns raw reply text into an ordered sequence of timed events:
// split the text into paragraphs at blank-line boundaries, emit each
// paragraph as its own bubble after a pause, and reveal each paragraph one
// character at a time with punctuation-aware delays. The script is a pure
// state machine: it owns no timers. The caller (the chat update loop)
// schedules each event's Delay and applies its mutation, which keeps every
// timed step a cancellable task tied to the owning session.
package typing

import (
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies the mutation an event carries.
type EventKind int

const (
	// EventAppend reveals one more character in the current bubble.
	EventAppend EventKind = iota
	// EventBreak opens a new, empty assistant bubble for the next paragraph.
	EventBreak
	// EventDone marks the reveal finished: all bubbles settle and the
	// loading flag clears. Always the final event.
	EventDone
)

// Event is one timed step of the reveal. Delay is how long to wait before
// applying the event, measured from the previous event (or, for the first
// event, from when the reply arrived).
type Event struct {
	Kind  EventKind
	Rune  rune
	Delay time.Duration
}

// =============================================================================
// TIMING CONSTANTS
// =============================================================================

// Delay windows, in milliseconds. Sampled uniformly.
const (
	thinkingMinMs, thinkingJitterMs   = 800, 1200 // before the first character
	paragraphMinMs, paragraphJitterMs = 600, 800  // after a paragraph finishes
	bubbleMinMs, bubbleJitterMs       = 500, 800  // after a new bubble appears
	charMinMs, charJitterMs           = 20, 30    // base per-character delay
)

// Per-character delay scaling.
const (
	spaceFactor       = 0.3
	sentenceEndFactor = 2.0
	commaFactor       = 1.5
)

// paragraphBoundary matches blank-line boundaries, including lines that
// contain only whitespace.
var paragraphBoundary = regexp.MustCompile(`\n\s*\n`)

// SplitParagraphs splits raw reply text into trimmed, non-empty paragraphs.
func SplitParagraphs(raw string) []string {
	parts := paragraphBoundary.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// SCRIPT
// =============================================================================

// Script is the reveal state machine for one assistant reply.
type Script struct {
	paragraphs [][]rune
	texts      []string

	para         int
	char         int
	started      bool
	breakPending bool
	done         bool

	rng   *rand.Rand
	speed float64
}

// NewScript builds a script for the given raw text. rng may be nil, in
// which case a time-seeded source is used; tests inject a fixed seed.
// speed scales every delay (1.0 = human pace); non-positive values are
// treated as 1.0.
func NewScript(raw string, rng *rand.Rand, speed float64) *Script {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if speed <= 0 {
		speed = 1.0
	}

	texts := SplitParagraphs(raw)
	paragraphs := make([][]rune, len(texts))
	for i, t := range texts {
		paragraphs[i] = []rune(t)
	}

	return &Script{
		paragraphs: paragraphs,
		texts:      texts,
		rng:        rng,
		speed:      speed,
	}
}

// Empty reports whether the reply produced zero paragraphs. An empty script
// emits a single EventDone and completes no message.
func (s *Script) Empty() bool {
	return len(s.paragraphs) == 0
}

// Paragraphs returns the paragraph texts, in reveal order.
func (s *Script) Paragraphs() []string {
	return s.texts
}

// Next returns the next timed event. The second return value is false once
// the script is exhausted (after EventDone has been delivered).
func (s *Script) Next() (Event, bool) {
	if s.done {
		return Event{}, false
	}

	// First call: thinking pause, then the first character (or immediate
	// completion when there is nothing to reveal).
	if !s.started {
		s.started = true
		if len(s.paragraphs) == 0 {
			s.done = true
			return Event{Kind: EventDone}, true
		}
		ev := Event{Kind: EventAppend, Rune: s.paragraphs[0][0], Delay: s.thinkingPause()}
		s.char = 1
		return ev, true
	}

	para := s.paragraphs[s.para]

	// A bubble was just opened; reveal its first character after the
	// bubble pause.
	if s.breakPending {
		s.breakPending = false
		ev := Event{Kind: EventAppend, Rune: para[0], Delay: s.bubblePause()}
		s.char = 1
		return ev, true
	}

	// Within a paragraph: the next character appears after the delay of
	// the one before it.
	if s.char < len(para) {
		ev := Event{Kind: EventAppend, Rune: para[s.char], Delay: s.charDelay(para[s.char-1])}
		s.char++
		return ev, true
	}

	// Paragraph finished.
	last := para[len(para)-1]
	if s.para == len(s.paragraphs)-1 {
		s.done = true
		return Event{Kind: EventDone, Delay: s.charDelay(last)}, true
	}

	s.para++
	s.char = 0
	s.breakPending = true
	return Event{Kind: EventBreak, Delay: s.charDelay(last) + s.paragraphPause()}, true
}

// =============================================================================
// DELAY SAMPLING
// =============================================================================

func (s *Script) thinkingPause() time.Duration {
	return s.sample(thinkingMinMs, thinkingJitterMs)
}

func (s *Script) paragraphPause() time.Duration {
	return s.sample(paragraphMinMs, paragraphJitterMs)
}

func (s *Script) bubblePause() time.Duration {
	return s.sample(bubbleMinMs, bubbleJitterMs)
}

// charDelay samples the delay that follows the given character: faster
// through spaces, a beat at sentence ends, half a beat at commas.
func (s *Script) charDelay(r rune) time.Duration {
	ms := charMinMs + s.rng.Float64()*charJitterMs
	switch r {
	case ' ':
		ms *= spaceFactor
	case '.', '!', '?':
		ms *= sentenceEndFactor
	case ',':
		ms *= commaFactor
	}
	return time.Duration(ms * s.speed * float64(time.Millisecond))
}

func (s *Script) sample(min, jitter float64) time.Duration {
	ms := min + s.rng.Float64()*jitter
	return time.Duration(ms * s.speed * float64(time.Millisecond))
}
