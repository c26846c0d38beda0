// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Buddy"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// Assistant messages are created as empty shells before the backend call
// begins, so the UI can show a bubble immediately. The typing renderer then
// appends content one character at a time and finally marks the message
// settled. Content is monotonic: it only ever grows until Settle, and is
// frozen afterwards.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`

	// Settled is true once the reveal for this message has finished and
	// the content will not change again. User and system messages are
	// settled from birth.
	Settled bool `json:"-"`
}

// NewMessage creates a new settled message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Timestamp: time.Now(),
		Content:   content,
		Settled:   true,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewAssistantShell creates a new, empty, unsettled assistant message.
// This is the bubble inserted before a backend call starts.
func NewAssistantShell() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// Append adds revealed text to an unsettled message. Appending to a settled
// message is a no-op: settled content is immutable.
func (m *Message) Append(s string) {
	if m.Settled {
		return
	}
	m.Content += s
}

// Settle freezes the message content.
func (m *Message) Settle() {
	m.Settled = true
}

// SettleWith replaces the content of an unsettled shell and freezes it.
// Used for fallback messages that appear fully formed, without a reveal.
func (m *Message) SettleWith(content string) {
	if m.Settled {
		return
	}
	m.Content = content
	m.Settled = true
}

// IsBlank reports whether the message content is empty or whitespace-only.
// Blank messages are filtered out of the history sent to the backend.
func (m *Message) IsBlank() bool {
	return strings.TrimSpace(m.Content) == ""
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
