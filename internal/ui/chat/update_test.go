// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/backend"
	"studybuddy/internal/config"
	"studybuddy/internal/interpret"
	"studybuddy/internal/model"
	"studybuddy/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	// Fast reveal keeps the tick delays tiny; the tests never sleep on
	// them anyway since ticks are fed to Update directly.
	cfg.Typing.SpeedMultiplier = 0.05
	m := New(cfg, styles.NewTheme())
	m.handleResize(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.phase = PhaseIdle
	return m
}

// drainReveal feeds reveal ticks until the reveal finishes.
func drainReveal(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if m.phase != PhaseRevealing {
			return m
		}
		m, _ = m.handleRevealTick(RevealTickMsg{Gen: m.revealGen})
	}
	t.Fatal("reveal did not finish")
	return m
}

// drainChain feeds chain steps until the chain finishes.
func drainChain(t *testing.T, m Model) Model {
	t.Helper()
	steps := []ChainStep{ChainCompleteGoal, ChainAddGoal, ChainFollowUp}
	for _, step := range steps {
		if m.phase != PhaseChaining {
			return m
		}
		goalID := ""
		if step == ChainCompleteGoal {
			if g, ok := m.interp.SATGoalToComplete(); ok {
				goalID = g.ID
			}
		}
		m, _ = m.handleChainStep(ChainStepMsg{Step: step, Gen: m.chainGen, GoalID: goalID})
	}
	return m
}

func settledAssistantContents(m Model) []string {
	var out []string
	for _, msg := range m.conversation.Messages {
		if msg.Role == model.RoleAssistant && msg.Settled {
			out = append(out, msg.Content)
		}
	}
	return out
}

// =============================================================================
// SUBMIT AND REVEAL
// =============================================================================

func TestSubmitDispatchesTurn(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("can you help me with algebra?")

	m, cmd := m.handleSubmit()

	if m.phase != PhaseDispatching {
		t.Errorf("phase = %v, want PhaseDispatching", m.phase)
	}
	if cmd == nil {
		t.Error("submit should produce a dispatch command")
	}
	if m.conversation.MessageCount() != 1 {
		t.Fatalf("MessageCount() = %d, want 1", m.conversation.MessageCount())
	}
	if m.input.Value() != "" {
		t.Error("input should reset after submit")
	}
}

func TestSubmitIgnoredWhileBusy(t *testing.T) {
	m := newTestModel(t)
	m.phase = PhaseDispatching
	m.input.SetValue("hello?")

	m, _ = m.handleSubmit()

	if m.conversation.MessageCount() != 0 {
		t.Error("submit during a turn should not add a message")
	}
}

func TestRevealSplitsParagraphsIntoBubbles(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "First thought.\n\nSecond thought."})

	if m.phase != PhaseRevealing {
		t.Fatalf("phase = %v, want PhaseRevealing", m.phase)
	}

	m = drainReveal(t, m)

	got := settledAssistantContents(m)
	want := []string{"First thought.", "Second thought."}
	if len(got) != len(want) {
		t.Fatalf("settled bubbles = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bubble %d = %q, want %q", i, got[i], want[i])
		}
	}
	if m.phase != PhaseIdle {
		t.Errorf("phase after reveal = %v, want PhaseIdle", m.phase)
	}
}

func TestReplyErrorShowsFallback(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Err: errors.New("connection refused")})
	m = drainReveal(t, m)

	got := settledAssistantContents(m)
	if len(got) != 1 || got[0] != backend.FallbackError {
		t.Errorf("fallback bubble = %v, want %q", got, backend.FallbackError)
	}
}

func TestWelcomeErrorShowsWelcomeFallback(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Err: errors.New("boom"), Welcome: true})
	m = drainReveal(t, m)

	got := settledAssistantContents(m)
	if len(got) != 1 || got[0] != backend.FallbackWelcome {
		t.Errorf("fallback bubble = %v, want %q", got, backend.FallbackWelcome)
	}
}

func TestEmptyReplyCompletesNoMessage(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "   \n\n  "})
	m = drainReveal(t, m)

	if m.conversation.MessageCount() != 0 {
		t.Errorf("MessageCount() = %d, want 0", m.conversation.MessageCount())
	}
	if m.phase != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", m.phase)
	}
}

func TestEmptyReplyDoesNotReinterpretSettledMessage(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "Let me connect you with a tutor who can help."})
	m = drainReveal(t, m)
	if !m.ShowingTutors() {
		t.Fatal("escalation reply should open the tutor panel")
	}

	// Dismiss the panel, then drain a reply with no content. The
	// escalation message is already settled and must stay interpreted.
	m.input.SetValue("/tutors")
	m, _ = m.handleSubmit()

	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "   \n\n  "})
	m = drainReveal(t, m)

	if m.ShowingTutors() {
		t.Error("a reply that reveals nothing must not re-open the tutor panel")
	}
}

func TestStaleReplyIgnoredAfterClear(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("how do I factor x^2 + 5x + 6?")
	m, _ = m.handleSubmit()
	stale := ReplyMsg{Gen: m.dispatchGen, Text: "Stale answer."}

	m.input.SetValue("/clear")
	m, _ = m.handleSubmit()

	m, _ = m.handleReply(stale)
	m = drainReveal(t, m)

	if m.conversation.MessageCount() != 0 {
		t.Errorf("MessageCount() = %d, stale reply must not reach a cleared conversation",
			m.conversation.MessageCount())
	}
	if m.phase != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", m.phase)
	}
}

func TestStaleRevealTickIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "Hello there."})
	staleGen := m.revealGen

	m.clearConversation()

	m, _ = m.handleRevealTick(RevealTickMsg{Gen: staleGen})
	if m.conversation.MessageCount() != 0 {
		t.Error("stale tick must not touch the cleared conversation")
	}
}

// =============================================================================
// INTERPRETATION AND GOAL CHAIN
// =============================================================================

func TestEscalationShowsTutors(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "Let me connect you with a tutor who can walk through this."})
	m = drainReveal(t, m)

	if !m.ShowingTutors() {
		t.Error("escalation reply should open the tutor panel")
	}
}

func TestNeutralReplyDoesNotEscalate(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "That's a tough concept. Let's look at it together."})
	m = drainReveal(t, m)

	if m.ShowingTutors() {
		t.Error("neutral reply should not open the tutor panel")
	}
}

func TestSATProgressRunsGoalChain(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "You're doing great on the SAT prep! I'd say you're ready."})
	m = drainReveal(t, m)

	if m.phase != PhaseChaining {
		t.Fatalf("phase = %v, want PhaseChaining", m.phase)
	}

	m = drainChain(t, m)

	sat, ok := m.store.FindByNameContains("sat")
	if !ok {
		t.Fatal("SAT goal missing")
	}
	if sat.Progress != 100 || !sat.IsComplete() {
		t.Errorf("SAT goal = %d%% %v, want 100%% completed", sat.Progress, sat.Status)
	}

	essay, ok := m.store.Find(interpret.EssayGoalID)
	if !ok {
		t.Fatal("essay goal was not added")
	}
	if essay.Name != interpret.EssayGoalName {
		t.Errorf("essay goal name = %q", essay.Name)
	}
	if m.sidebar.NewGoalID != interpret.EssayGoalID {
		t.Error("sidebar should highlight the new goal")
	}

	last := m.conversation.LastAssistantMessage()
	if last == nil || last.Content != interpret.FollowUpText {
		t.Error("follow-up message missing")
	}
	if m.phase != PhaseIdle {
		t.Errorf("phase after chain = %v, want PhaseIdle", m.phase)
	}
}

func TestGoalChainDoesNotRefire(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "Great work on the SAT, you're ready!"})
	m = drainReveal(t, m)
	m = drainChain(t, m)

	before := m.store.Count()

	// A second congratulatory reply finds the SAT goal already complete.
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "Awesome SAT progress again!"})
	m = drainReveal(t, m)

	if m.phase == PhaseChaining {
		t.Error("chain should not re-fire for a completed goal")
	}
	if m.store.Count() != before {
		t.Error("no goals should be added on the second pass")
	}
}

func TestStaleChainStepIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "You're ready for the SAT, great job!"})
	m = drainReveal(t, m)

	staleGen := m.chainGen
	m.clearConversation()

	m, _ = m.handleChainStep(ChainStepMsg{Step: ChainCompleteGoal, Gen: staleGen, GoalID: "goal_sat"})

	if sat, _ := m.store.FindByNameContains("sat"); sat.IsComplete() {
		t.Error("stale chain step must not complete the goal")
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestSlashGoalsListsGoals(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/goals")
	m, _ = m.handleSubmit()

	last := m.conversation.LastMessage()
	if last == nil || last.Role != model.RoleSystem {
		t.Fatal("expected a system message")
	}
	if !strings.Contains(last.Content, "SAT Math") {
		t.Errorf("goal listing missing goal: %q", last.Content)
	}
}

func TestSlashTutorsToggles(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/tutors")
	m, _ = m.handleSubmit()
	if !m.ShowingTutors() {
		t.Error("/tutors should open the panel")
	}
	m.input.SetValue("/tutors")
	m, _ = m.handleSubmit()
	if m.ShowingTutors() {
		t.Error("/tutors again should close the panel")
	}
}

func TestSlashClearResetsConversation(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserMessage("hello")
	m.conversation.AddSystemMessage("note")

	m.input.SetValue("/clear")
	m, _ = m.handleSubmit()

	if !m.conversation.IsEmpty() {
		t.Error("/clear should empty the conversation")
	}
	if m.phase != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", m.phase)
	}
}

func TestUnknownSlashCommand(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/bogus")
	m, _ = m.handleSubmit()

	last := m.conversation.LastMessage()
	if last == nil || !strings.Contains(last.Content, "Unknown command") {
		t.Error("unknown command should produce a hint")
	}
}

// =============================================================================
// VIEW
// =============================================================================

func TestViewRendersConversation(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AddUserMessage("help me factor x^2+5x+6")
	m, _ = m.handleReply(ReplyMsg{Gen: m.dispatchGen, Text: "Sure, look for two numbers that multiply to 6."})
	m = drainReveal(t, m)
	m.refreshViewport(true)

	out := m.View()
	if !strings.Contains(out, "Study Buddy") {
		t.Error("View() missing header")
	}
}

func TestViewBeforeResize(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, styles.NewTheme())
	if m.View() != "Loading..." {
		t.Error("unsized view should render the loading placeholder")
	}
}
