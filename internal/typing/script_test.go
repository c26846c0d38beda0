// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package typing

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// replay applies every event of a script and returns the bubbles that were
// revealed, the events themselves, and whether EventDone arrived.
func replay(t *testing.T, s *Script) ([]string, []Event, bool) {
	t.Helper()

	var bubbles []string
	var events []Event
	done := false

	if !s.Empty() {
		bubbles = append(bubbles, "")
	}

	for i := 0; ; i++ {
		if i > 100000 {
			t.Fatal("script did not terminate")
		}
		ev, ok := s.Next()
		if !ok {
			break
		}
		events = append(events, ev)
		switch ev.Kind {
		case EventAppend:
			bubbles[len(bubbles)-1] += string(ev.Rune)
		case EventBreak:
			bubbles = append(bubbles, "")
		case EventDone:
			done = true
		}
	}
	return bubbles, events, done
}

// =============================================================================
// PARAGRAPH SPLITTING
// =============================================================================

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "Hello there!", []string{"Hello there!"}},
		{"double newline", "One.\n\nTwo.", []string{"One.", "Two."}},
		{"whitespace line", "One.\n   \nTwo.", []string{"One.", "Two."}},
		{"leading and trailing blanks", "\n\nOne.\n\n\n", []string{"One."}},
		{"inner padding trimmed", "  One.  \n\n  Two.  ", []string{"One.", "Two."}},
		{"empty", "", nil},
		{"whitespace only", "  \n \t \n  ", nil},
		{"single newline keeps paragraph", "line one\nline two", []string{"line one\nline two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d paragraphs %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// =============================================================================
// REVEAL LOSSLESSNESS
// =============================================================================

func TestRevealIsLossless(t *testing.T) {
	raw := "First paragraph, with a comma.\n\nSecond one!\n\nAnd a third?"
	s := NewScript(raw, testRand(), 1.0)

	bubbles, _, done := replay(t, s)

	if !done {
		t.Fatal("EventDone never arrived")
	}
	want := s.Paragraphs()
	if len(bubbles) != len(want) {
		t.Fatalf("revealed %d bubbles, want %d", len(bubbles), len(want))
	}
	for i := range want {
		if bubbles[i] != want[i] {
			t.Errorf("bubble %d = %q, want %q", i, bubbles[i], want[i])
		}
	}
}

func TestRevealHandlesUnicode(t *testing.T) {
	raw := "héllo wörld 👋\n\nsecond ¶"
	s := NewScript(raw, testRand(), 1.0)

	bubbles, _, _ := replay(t, s)
	if bubbles[0] != "héllo wörld 👋" {
		t.Errorf("unicode reveal mangled: %q", bubbles[0])
	}
}

func TestEmptyReplyCompletesNoMessage(t *testing.T) {
	s := NewScript("   \n \n  ", testRand(), 1.0)

	if !s.Empty() {
		t.Fatal("whitespace-only reply should be empty")
	}

	ev, ok := s.Next()
	if !ok || ev.Kind != EventDone {
		t.Fatalf("empty script should emit a single EventDone, got %+v ok=%v", ev, ok)
	}
	if _, ok := s.Next(); ok {
		t.Error("script should be exhausted after EventDone")
	}
}

func TestEventOrderingOneBreakPerExtraParagraph(t *testing.T) {
	s := NewScript("AB\n\nCD\n\nEF", testRand(), 1.0)

	_, events, _ := replay(t, s)

	var breaks, appends, dones int
	for _, ev := range events {
		switch ev.Kind {
		case EventBreak:
			breaks++
		case EventAppend:
			appends++
		case EventDone:
			dones++
		}
	}
	if breaks != 2 {
		t.Errorf("expected 2 breaks for 3 paragraphs, got %d", breaks)
	}
	if appends != 6 {
		t.Errorf("expected 6 appends, got %d", appends)
	}
	if dones != 1 {
		t.Errorf("expected exactly one EventDone, got %d", dones)
	}
	if events[len(events)-1].Kind != EventDone {
		t.Error("EventDone must be the final event")
	}
}

// =============================================================================
// DELAY WINDOWS
// =============================================================================

func within(d time.Duration, minMs, maxMs float64) bool {
	return d >= time.Duration(minMs*float64(time.Millisecond)) &&
		d <= time.Duration(maxMs*float64(time.Millisecond))
}

func TestThinkingPauseWindow(t *testing.T) {
	rng := testRand()
	for i := 0; i < 500; i++ {
		s := NewScript("hi", rng, 1.0)
		ev, _ := s.Next()
		if !within(ev.Delay, 800, 2000) {
			t.Fatalf("thinking pause %v outside 800-2000ms", ev.Delay)
		}
	}
}

func TestCharDelayScaling(t *testing.T) {
	s := NewScript("x", testRand(), 1.0)

	for i := 0; i < 500; i++ {
		if d := s.charDelay('a'); !within(d, 20, 50) {
			t.Fatalf("plain char delay %v outside 20-50ms", d)
		}
		if d := s.charDelay(' '); !within(d, 20*0.3, 50*0.3) {
			t.Fatalf("space delay %v outside scaled window", d)
		}
		if d := s.charDelay('.'); !within(d, 40, 100) {
			t.Fatalf("sentence-end delay %v outside scaled window", d)
		}
		if d := s.charDelay(','); !within(d, 30, 75) {
			t.Fatalf("comma delay %v outside scaled window", d)
		}
	}
}

func TestSpeedMultiplierScalesDelays(t *testing.T) {
	fast := NewScript("x", rand.New(rand.NewSource(7)), 0.1)
	slow := NewScript("x", rand.New(rand.NewSource(7)), 1.0)

	fd := fast.charDelay('a')
	sd := slow.charDelay('a')
	if fd >= sd {
		t.Errorf("speed 0.1 delay %v should be below speed 1.0 delay %v", fd, sd)
	}
}

func TestNonPositiveSpeedFallsBackToHumanPace(t *testing.T) {
	s := NewScript("x", testRand(), 0)
	if d := s.charDelay('a'); !within(d, 20, 50) {
		t.Errorf("zero speed should mean 1.0, got delay %v", d)
	}
}

func TestBreakDelayIncludesParagraphPause(t *testing.T) {
	rng := testRand()
	for i := 0; i < 200; i++ {
		s := NewScript("a\n\nb", rng, 1.0)
		var breakEv *Event
		for {
			ev, ok := s.Next()
			if !ok {
				break
			}
			if ev.Kind == EventBreak {
				e := ev
				breakEv = &e
			}
		}
		if breakEv == nil {
			t.Fatal("no break event for two paragraphs")
		}
		// Last-char delay (6-100ms) plus the 600-1400ms paragraph pause.
		if !within(breakEv.Delay, 600, 1500) {
			t.Fatalf("break delay %v outside expected window", breakEv.Delay)
		}
	}
}

func TestBubblePauseFollowsBreak(t *testing.T) {
	rng := testRand()
	for i := 0; i < 200; i++ {
		s := NewScript("a\n\nb", rng, 1.0)
		sawBreak := false
		for {
			ev, ok := s.Next()
			if !ok {
				break
			}
			if ev.Kind == EventBreak {
				sawBreak = true
				continue
			}
			if sawBreak && ev.Kind == EventAppend {
				if !within(ev.Delay, 500, 1300) {
					t.Fatalf("post-break append delay %v outside 500-1300ms", ev.Delay)
				}
				sawBreak = false
			}
		}
	}
}

func TestLongReplyRevealEndsWithSettle(t *testing.T) {
	raw := strings.Repeat("Some sentence here. ", 50) + "\n\n" +
		strings.Repeat("More text, with commas, everywhere. ", 30)
	s := NewScript(raw, testRand(), 1.0)

	bubbles, _, done := replay(t, s)
	if !done {
		t.Fatal("long reveal should still finish")
	}
	if len(bubbles) != 2 {
		t.Fatalf("expected 2 bubbles, got %d", len(bubbles))
	}
}
