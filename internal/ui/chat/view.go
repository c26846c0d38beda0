// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat view: the header,
// the message list, the typing indicator, the input area, the status
// bar, and the sidebar column.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studybuddy/internal/model"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header (1 line) + messages (viewport) + input (3 lines) + status (1 line),
// with the sidebar joined on the right when the terminal is wide enough.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	column := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)

	if !m.sidebarVisible() {
		return column
	}

	side := m.sidebar.View()
	if m.showTutors {
		side = lipgloss.JoinVertical(lipgloss.Left, side, m.sidebar.ViewTutors())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, column, side)
}

// =============================================================================
// COMPONENTS
// =============================================================================

func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderTitle.Render("Study Buddy")
	sub := t.HeaderSubtitle.Render("your learning companion")
	return t.Header.Width(m.chatWidth()).Render(title + "  " + sub)
}

// renderMessages renders the conversation for the viewport.
func (m Model) renderMessages() string {
	var b strings.Builder

	for _, msg := range m.conversation.Messages {
		if msg.Role == model.RoleAssistant && msg.IsBlank() && !msg.Settled {
			// An opened bubble waiting on its first character renders
			// as the typing indicator instead.
			continue
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.waiting() || (m.phase == PhaseRevealing && m.current != nil && m.current.IsBlank()) {
		b.WriteString(m.renderTypingLine())
		b.WriteString("\n")
	}

	return b.String()
}

// renderMessage renders one message bubble with its sender label.
func (m Model) renderMessage(msg *model.Message) string {
	t := m.theme
	content := msg.Content
	width := t.BubbleWidth()

	switch msg.Role {
	case model.RoleUser:
		label := t.SenderLabel.Render(msg.Role.DisplayName())
		bubble := t.UserBubble.MaxWidth(width).Render(content)
		return lipgloss.JoinVertical(lipgloss.Right, label, bubble)

	case model.RoleAssistant:
		label := t.SenderLabel.Render(msg.Role.DisplayName())
		bubble := t.BuddyBubble.MaxWidth(width).Render(content)
		return lipgloss.JoinVertical(lipgloss.Left, label, bubble)

	default:
		return t.SystemBubble.MaxWidth(width).Render(content)
	}
}

// renderTypingLine renders the "Buddy is typing" indicator.
func (m Model) renderTypingLine() string {
	t := m.theme
	return m.spinner.View() + " " + t.ThinkingText.Render("Buddy is typing")
}

func (m Model) renderInput() string {
	t := m.theme
	return t.InputContainer.Width(m.chatWidth() - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	t := m.theme

	var parts []string
	parts = append(parts, t.ShortcutKey.Render("enter")+t.ShortcutDesc.Render(" send"))
	parts = append(parts, t.ShortcutKey.Render("/help")+t.ShortcutDesc.Render(" commands"))
	parts = append(parts, t.ShortcutKey.Render("ctrl+c")+t.ShortcutDesc.Render(" quit"))

	if m.showTutors {
		parts = append(parts, t.TutorHeading.Render("tutors available"))
	}

	return t.StatusBar.Width(m.chatWidth()).Render(strings.Join(parts, "  "))
}
