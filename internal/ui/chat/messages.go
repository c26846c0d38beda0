// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat view.
// Messages are organized into the following categories:
//   - Reply: backend responses for user turns and the welcome turn
//   - Reveal: timed delivery of the next reveal event
//   - Chain: timed goal-chain steps after a reply settles
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyMsg delivers the backend's reply for a turn.
// Gen must match the model's current dispatch generation; a reply whose
// dispatch was superseded by /clear is dropped. Err is set when the
// request failed; the view falls back to a fixed message rather than
// surfacing the raw error to the student.
type ReplyMsg struct {
	Gen     int
	Text    string
	Err     error
	Welcome bool // True for the greeting fetched on startup
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealTickMsg fires when the next reveal event is due.
// Gen must match the model's current reveal generation; stale ticks
// from a cancelled reveal are dropped.
type RevealTickMsg struct {
	Gen int
}

// =============================================================================
// GOAL CHAIN MESSAGES
// =============================================================================

// ChainStep identifies a step in the goal-update chain.
type ChainStep int

const (
	// ChainCompleteGoal marks the in-flight goal complete.
	ChainCompleteGoal ChainStep = iota
	// ChainAddGoal adds the follow-on goal.
	ChainAddGoal
	// ChainFollowUp posts the follow-up suggestion message.
	ChainFollowUp
)

// ChainStepMsg fires when a goal-chain step is due.
// Gen must match the model's current chain generation.
type ChainStepMsg struct {
	Step   ChainStep
	Gen    int
	GoalID string // Goal being completed, set for ChainCompleteGoal
}
