// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/backend"
	"studybuddy/internal/interpret"
	"studybuddy/internal/model"
	"studybuddy/internal/typing"
)

// Update handles all incoming messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.waiting() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ReplyMsg:
		return m.handleReply(msg)

	case RevealTickMsg:
		return m.handleRevealTick(msg)

	case ChainStepMsg:
		return m.handleChainStep(msg)
	}

	return m, nil
}

// waiting reports whether the typing indicator should animate: the
// backend is in flight, or the reply's thinking pause has not produced
// a first character yet.
func (m Model) waiting() bool {
	if m.phase == PhaseDispatching {
		return true
	}
	return m.phase == PhaseRevealing && m.current == nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.PageUp),
		key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Everything else goes to the input field.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit sends the typed message, or runs it as a slash command.
// Input is ignored while a turn is in flight.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if cmd, handled := m.handleSlashCommand(text); handled {
		m.input.Reset()
		return m, cmd
	}

	if m.phase != PhaseIdle {
		return m, nil
	}

	m.conversation.AddUserMessage(text)
	m.input.Reset()
	m.phase = PhaseDispatching
	m.dispatchGen++
	m.refreshViewport(true)

	return m, tea.Batch(m.requestReply(), m.spinner.Tick)
}

// =============================================================================
// REPLY AND REVEAL
// =============================================================================

// handleReply starts revealing the backend's reply. A failed request is
// replaced by a fixed fallback message so the student never sees a raw
// error.
func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	if msg.Gen != m.dispatchGen {
		return m, nil
	}

	text := msg.Text
	if msg.Err != nil {
		if msg.Welcome {
			text = backend.FallbackWelcome
		} else {
			text = backend.FallbackError
		}
	}

	m.script = typing.NewScript(text, nil, m.speed)
	m.current = nil
	m.phase = PhaseRevealing
	m.revealGen++

	ev, ok := m.script.Next()
	if !ok {
		m.phase = PhaseIdle
		m.script = nil
		return m, nil
	}
	m.pending = ev
	return m, tea.Batch(revealTick(ev.Delay, m.revealGen), m.spinner.Tick)
}

// handleRevealTick applies the pending reveal event and schedules the
// next one. Stale ticks from a superseded reveal are dropped.
func (m Model) handleRevealTick(msg RevealTickMsg) (Model, tea.Cmd) {
	if msg.Gen != m.revealGen || m.phase != PhaseRevealing || m.script == nil {
		return m, nil
	}

	switch m.pending.Kind {
	case typing.EventAppend:
		if m.current == nil {
			m.current = m.conversation.AddAssistantShell()
		}
		m.current.Append(string(m.pending.Rune))

	case typing.EventBreak:
		if m.current != nil {
			m.current.Settle()
		}
		m.current = m.conversation.AddAssistantShell()

	case typing.EventDone:
		settled := m.current
		if settled != nil {
			settled.Settle()
		}
		m.current = nil
		m.script = nil
		m.refreshViewport(true)
		cmd := m.finishTurn(settled)
		return m, cmd
	}

	m.refreshViewport(true)

	next, ok := m.script.Next()
	if !ok {
		cmd := m.finishTurn(m.current)
		return m, cmd
	}
	m.pending = next
	return m, revealTick(next.Delay, m.revealGen)
}

// finishTurn runs interpretation on the message this turn settled and
// either returns to idle or kicks off the goal chain. A reveal that
// produced no bubble settles nothing, so earlier messages are never
// interpreted a second time.
func (m *Model) finishTurn(last *model.Message) tea.Cmd {
	if last == nil || !last.Settled {
		m.phase = PhaseIdle
		return nil
	}

	sig := m.interp.Classify(last.Content)
	if sig.Escalate {
		m.showTutors = true
	}
	if sig.SATProgress {
		if g, ok := m.interp.SATGoalToComplete(); ok {
			return m.startChain(g.ID)
		}
	}

	m.phase = PhaseIdle
	return nil
}

// =============================================================================
// GOAL CHAIN
// =============================================================================

// handleChainStep advances the goal-update chain. Each step re-checks
// store state so the chain never fires twice for the same goal.
func (m Model) handleChainStep(msg ChainStepMsg) (Model, tea.Cmd) {
	if msg.Gen != m.chainGen || m.phase != PhaseChaining {
		return m, nil
	}

	switch msg.Step {
	case ChainCompleteGoal:
		m.interp.CompleteGoal(msg.GoalID)
		refreshGoalNames(m.studentCtx, m.store)
		if m.store.HasNameContaining("essay") {
			m.phase = PhaseIdle
			return m, nil
		}
		return m, chainTick(interpret.AddGoalDelay, ChainAddGoal, m.chainGen, "")

	case ChainAddGoal:
		if !m.interp.AddEssayGoal() {
			m.phase = PhaseIdle
			return m, nil
		}
		m.sidebar.NewGoalID = interpret.EssayGoalID
		refreshGoalNames(m.studentCtx, m.store)
		return m, chainTick(interpret.FollowUpDelay, ChainFollowUp, m.chainGen, "")

	case ChainFollowUp:
		followUp := model.NewMessage(model.RoleAssistant, interpret.FollowUpText)
		m.conversation.AddMessage(followUp)
		m.refreshViewport(true)
		m.phase = PhaseIdle

		// The follow-up runs through the same interpretation path as
		// any other settled message. The completed goal and the
		// existing essay goal keep it from re-firing.
		return m, m.finishTurn(followUp)
	}

	return m, nil
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recomputes component dimensions for a new terminal size.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	chatWidth := m.chatWidth()

	// header (1) + input (3) + status (1)
	viewportHeight := msg.Height - 5
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = viewportHeight
	m.input.Width = chatWidth - 6
	m.sidebar.SetSize(m.sidebarWidth(), viewportHeight)

	m.refreshViewport(false)
}

// sidebarVisible reports whether the terminal is wide enough for the
// sidebar.
func (m Model) sidebarVisible() bool {
	return m.showSidebar && m.width >= 80
}

func (m Model) sidebarWidth() int {
	if !m.sidebarVisible() {
		return 0
	}
	return 34
}

func (m Model) chatWidth() int {
	w := m.width - m.sidebarWidth()
	if w < 20 {
		w = 20
	}
	return w
}

// refreshViewport re-renders the message list into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
