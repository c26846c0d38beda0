// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/backend"
	"studybuddy/internal/interpret"
	"studybuddy/internal/prompt"
)

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// requestReply sends the conversation to the backend and delivers the
// reply as a ReplyMsg. The command runs off the update loop.
func (m Model) requestReply() tea.Cmd {
	req := &backend.ChatRequest{
		Messages:       backend.MessagesFrom(m.conversation),
		System:         prompt.BaseSystemPrompt,
		StudentContext: m.studentCtx,
	}
	client := m.client
	gen := m.dispatchGen

	return func() tea.Msg {
		// The client enforces its own request timeout.
		text, err := client.Chat(context.Background(), req)
		return ReplyMsg{Gen: gen, Text: text, Err: err}
	}
}

// requestWelcome fetches the startup greeting. The welcome prompt is sent
// as a synthetic user turn and never appears in the conversation.
func (m Model) requestWelcome() tea.Cmd {
	req := &backend.ChatRequest{
		Messages:       []backend.Message{{Role: "user", Content: prompt.WelcomePrompt}},
		System:         prompt.BaseSystemPrompt,
		StudentContext: m.studentCtx,
	}
	client := m.client
	gen := m.dispatchGen

	return func() tea.Msg {
		text, err := client.Chat(context.Background(), req)
		return ReplyMsg{Gen: gen, Text: text, Err: err, Welcome: true}
	}
}

// =============================================================================
// TIMED COMMANDS
// =============================================================================

// revealTick schedules the pending reveal event.
func revealTick(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RevealTickMsg{Gen: gen}
	})
}

// chainTick schedules a goal-chain step.
func chainTick(delay time.Duration, step ChainStep, gen int, goalID string) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ChainStepMsg{Step: step, Gen: gen, GoalID: goalID}
	})
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const helpText = `Commands:
/help    show this help
/goals   list your goals
/tutors  toggle the tutor panel
/clear   clear the conversation

Enter sends, Ctrl+C quits.`

// handleSlashCommand executes a local slash command. Returns false when
// the input is not a command and should be sent as a chat message.
func (m *Model) handleSlashCommand(input string) (tea.Cmd, bool) {
	if !strings.HasPrefix(input, "/") {
		return nil, false
	}

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/help":
		m.conversation.AddSystemMessage(helpText)

	case "/goals":
		var b strings.Builder
		b.WriteString("Your goals:\n")
		for _, s := range m.store.Summaries() {
			b.WriteString("- " + s + "\n")
		}
		m.conversation.AddSystemMessage(strings.TrimRight(b.String(), "\n"))

	case "/tutors":
		m.showTutors = !m.showTutors

	case "/clear":
		m.clearConversation()

	default:
		m.conversation.AddSystemMessage("Unknown command. Try /help.")
	}

	m.refreshViewport(true)
	return nil, true
}

// clearConversation drops all messages and cancels any reveal or chain
// steps still in flight.
func (m *Model) clearConversation() {
	m.conversation.Clear()
	m.dispatchGen++
	m.revealGen++
	m.chainGen++
	m.script = nil
	m.current = nil
	m.showTutors = false
	m.sidebar.NewGoalID = ""
	m.phase = PhaseIdle
}

// =============================================================================
// CHAIN SCHEDULING
// =============================================================================

// startChain kicks off the goal-update chain for a completed SAT goal.
func (m *Model) startChain(goalID string) tea.Cmd {
	m.chainGen++
	m.phase = PhaseChaining
	return chainTick(interpret.CompleteGoalDelay, ChainCompleteGoal, m.chainGen, goalID)
}
