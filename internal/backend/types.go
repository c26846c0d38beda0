// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"studybuddy/internal/model"
	"studybuddy/internal/prompt"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Message is a single {role, content} pair in the wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the JSON body POSTed to /api/chat.
type ChatRequest struct {
	Messages       []Message       `json:"messages"`
	System         string          `json:"system"`
	StudentContext *prompt.Context `json:"studentContext,omitempty"`
}

// ContentBlock is one element of the response content array.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChatResponse is the upstream reply shape. The assistant's reply is the
// text of the first content block.
type ChatResponse struct {
	Content []ContentBlock `json:"content"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// MessagesFrom maps a conversation to wire messages, dropping any message
// with empty or whitespace-only content and trimming the rest. System
// messages are local UI artifacts and are not sent.
func MessagesFrom(conv *model.Conversation) []Message {
	out := make([]Message, 0, conv.MessageCount())
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleSystem || msg.IsBlank() {
			continue
		}
		out = append(out, Message{
			Role:    msg.Role.String(),
			Content: trimContent(msg.Content),
		})
	}
	return out
}
