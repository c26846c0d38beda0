// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The chat view owns the full conversation loop: the student types a
// message, the reply is fetched from the chat proxy, revealed character
// by character at a human typing pace, and then scanned for signals
// that drive goal updates and tutor escalation.
//
// The view moves through a small set of phases:
//
//	PhaseIdle        ready for input
//	PhaseDispatching waiting on the backend
//	PhaseRevealing   typing out the reply bubble by bubble
//	PhaseChaining    goal updates firing after a reply settles
//
// Timed work (reveal ticks, goal chain steps) is generation-counted so
// a cleared conversation cancels any steps still in flight.
package chat
