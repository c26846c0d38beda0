// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Expected role user, got %s", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("Expected content 'hello', got %q", msg.Content)
	}
	if !msg.Settled {
		t.Error("User messages should be settled from birth")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("Expected msg_ ID prefix, got %q", msg.ID)
	}
}

func TestNewAssistantShell(t *testing.T) {
	msg := NewAssistantShell()

	if msg.Role != RoleAssistant {
		t.Errorf("Expected role assistant, got %s", msg.Role)
	}
	if msg.Content != "" {
		t.Errorf("Shell should start empty, got %q", msg.Content)
	}
	if msg.Settled {
		t.Error("Shell should not be settled")
	}
}

func TestMessageAppendGrowsMonotonically(t *testing.T) {
	msg := NewAssistantShell()

	msg.Append("Hel")
	msg.Append("lo")
	if msg.Content != "Hello" {
		t.Errorf("Expected 'Hello', got %q", msg.Content)
	}

	msg.Settle()
	msg.Append(" world")
	if msg.Content != "Hello" {
		t.Errorf("Settled content must not change, got %q", msg.Content)
	}
}

func TestMessageSettleWith(t *testing.T) {
	msg := NewAssistantShell()
	msg.SettleWith("Sorry, I encountered an error. Please try again.")

	if !msg.Settled {
		t.Error("SettleWith should settle the message")
	}
	if msg.Content == "" {
		t.Error("SettleWith should set content")
	}

	// A second SettleWith is a no-op
	msg.SettleWith("other")
	if msg.Content != "Sorry, I encountered an error. Please try again." {
		t.Errorf("Settled content changed: %q", msg.Content)
	}
}

func TestMessageIsBlank(t *testing.T) {
	tests := []struct {
		content string
		blank   bool
	}{
		{"", true},
		{"   ", true},
		{"\n\t ", true},
		{"hi", false},
		{" x ", false},
	}

	for _, tt := range tests {
		msg := &Message{Content: tt.content}
		if got := msg.IsBlank(); got != tt.blank {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.content, got, tt.blank)
		}
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("short")
	if msg.Preview(50) != "short" {
		t.Errorf("Short content should not be truncated")
	}

	long := NewUserMessage(strings.Repeat("a", 100))
	preview := long.Preview(10)
	if len([]rune(preview)) != 10 {
		t.Errorf("Expected preview of 10 runes, got %d", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", preview)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversationAppendOnlyOrdering(t *testing.T) {
	conv := NewConversation()

	conv.AddUserMessage("first")
	shell := conv.AddAssistantShell()
	conv.AddUserMessage("second")

	if conv.MessageCount() != 3 {
		t.Fatalf("Expected 3 messages, got %d", conv.MessageCount())
	}
	if conv.Messages[0].Content != "first" {
		t.Error("Ordering should be append order")
	}
	if conv.Messages[1].ID != shell.ID {
		t.Error("Shell should keep its position")
	}
}

func TestConversationLastAssistantMessage(t *testing.T) {
	conv := NewConversation()
	if conv.LastAssistantMessage() != nil {
		t.Error("Empty conversation has no assistant message")
	}

	conv.AddUserMessage("hi")
	shell := conv.AddAssistantShell()
	conv.AddUserMessage("again")

	if got := conv.LastAssistantMessage(); got == nil || got.ID != shell.ID {
		t.Error("LastAssistantMessage should skip trailing user messages")
	}
}

func TestConversationMessageByID(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddUserMessage("hello")

	if conv.MessageByID(msg.ID) != msg {
		t.Error("MessageByID should find the message")
	}
	if conv.MessageByID("msg_nope") != nil {
		t.Error("Unknown ID should return nil")
	}
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hi")
	id := conv.ID

	conv.Clear()

	if !conv.IsEmpty() {
		t.Error("Clear should remove all messages")
	}
	if conv.ID != id {
		t.Error("Clear should keep the conversation identity")
	}
}

// =============================================================================
// GOAL TESTS
// =============================================================================

func TestGoalIsComplete(t *testing.T) {
	g := Goal{ID: "g1", Name: "SAT Math", Progress: 100, Status: GoalCompleted}
	if !g.IsComplete() {
		t.Error("Completed goal should report complete")
	}

	g = Goal{ID: "g2", Name: "Calc AB", Progress: 100, Status: GoalActive}
	if g.IsComplete() {
		t.Error("Active goal at 100 progress is not completed by itself")
	}
}

func TestMockData(t *testing.T) {
	student := MockStudent()
	if student.Name != "Alex" {
		t.Errorf("Expected student Alex, got %s", student.Name)
	}

	goals := MockGoals()
	if len(goals) != 2 {
		t.Fatalf("Expected 2 starting goals, got %d", len(goals))
	}
	for _, g := range goals {
		if g.Status != GoalActive {
			t.Errorf("Goal %s should start active", g.ID)
		}
	}

	if len(MockTutors()) != 3 {
		t.Error("Expected 3 tutors in the roster")
	}
	if MockSession().Tutor != "Sarah Chen" {
		t.Error("Last session should be with Sarah Chen")
	}
}
