// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// GOAL TYPE
// =============================================================================

// GoalStatus is the lifecycle state of a learning goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// Goal is a tracked learning objective.
//
// Invariant: a completed goal always has Progress == 100. The converse does
// not hold; a goal may reach 100 progress through an explicit update without
// a status transition.
type Goal struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Progress int        `json:"progress"` // 0-100
	Status   GoalStatus `json:"status"`
}

// IsComplete returns true if the goal has been completed.
func (g Goal) IsComplete() bool {
	return g.Status == GoalCompleted
}

// =============================================================================
// SESSION RECORD
// =============================================================================

// Session is an immutable snapshot of the student's last tutoring session.
// JSON tags match the wire shape the backend expects for lastSession.
type Session struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	Tutor      string   `json:"tutor"`
	Subject    string   `json:"subject"`
	Topics     []string `json:"topics"`
	Struggles  []string `json:"struggles"`
	Transcript string   `json:"transcript,omitempty"`
}

// =============================================================================
// TUTOR RECORD
// =============================================================================

// Tutor describes a human tutor offered in the escalation panel.
type Tutor struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Subjects         []string `json:"subjects"`
	Interests        []string `json:"interests"`
	Bio              string   `json:"bio"`
	Availability     []string `json:"availability"`
	ConnectionPoints []string `json:"connectionPoints,omitempty"`
}

// =============================================================================
// STUDENT PROFILE
// =============================================================================

// Student is the profile record for the active session. The live goal list
// is owned by the goal store, not by this struct; everything here is static
// for the lifetime of the session.
type Student struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Interests         []string `json:"interests"`
	EmotionalPatterns []string `json:"emotionalPatterns,omitempty"`
}
