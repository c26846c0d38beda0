// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sidebar renders the student context panel: who the student is,
// their goals with progress, and their last tutoring session. It also
// renders the tutor list shown when a conversation escalates.
package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studybuddy/internal/goals"
	"studybuddy/internal/model"
	"studybuddy/internal/ui/styles"
	"studybuddy/internal/util"
)

const progressBarWidth = 14

// Model holds the sidebar state. It reads goals live from the store so
// goal updates made elsewhere show up on the next render.
type Model struct {
	theme   *styles.Theme
	store   *goals.Store
	student model.Student
	session *model.Session
	tutors  []model.Tutor

	width  int
	height int

	// NewGoalID highlights a goal that was just added.
	NewGoalID string
}

// New creates a sidebar for the given student context.
func New(theme *styles.Theme, store *goals.Store, student model.Student, session *model.Session, tutors []model.Tutor) Model {
	return Model{
		theme:   theme,
		store:   store,
		student: student,
		session: session,
		tutors:  tutors,
	}
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// contentWidth is the usable width inside the sidebar border and padding.
func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 16 {
		w = 16
	}
	return w
}

// View renders the student context panel.
func (m Model) View() string {
	t := m.theme
	cw := m.contentWidth()

	var b strings.Builder

	b.WriteString(t.SidebarTitle.Render("Student"))
	b.WriteString("\n")
	b.WriteString(t.SidebarValue.Render(util.TruncateWidth(m.student.Name, cw)))
	b.WriteString("\n")

	if len(m.student.Interests) > 0 {
		b.WriteString(t.SidebarLabel.Render(util.TruncateWidth(strings.Join(m.student.Interests, ", "), cw)))
		b.WriteString("\n")
	}

	b.WriteString(m.viewGoals(cw))

	if m.session != nil {
		b.WriteString(m.viewSession(cw))
	}

	if len(m.student.EmotionalPatterns) > 0 {
		b.WriteString("\n")
		b.WriteString(t.SidebarSection.Render("Patterns"))
		b.WriteString("\n")
		for _, p := range m.student.EmotionalPatterns {
			b.WriteString(t.SidebarLabel.Render(wrap("- "+p, cw)))
			b.WriteString("\n")
		}
	}

	return t.Sidebar.Width(m.width - 2).Render(b.String())
}

// viewGoals renders each goal with a progress bar. Completed goals get a
// checkmark, a just-added goal gets a NEW badge.
func (m Model) viewGoals(cw int) string {
	t := m.theme

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(t.SidebarSection.Render("Goals"))
	b.WriteString("\n")

	snapshot := m.store.Snapshot()
	if len(snapshot) == 0 {
		b.WriteString(t.SidebarLabel.Render("No goals yet"))
		b.WriteString("\n")
		return b.String()
	}

	for _, g := range snapshot {
		name := util.TruncateWidth(g.Name, cw-6)
		switch {
		case g.IsComplete():
			b.WriteString(t.GoalComplete.Render("[OK] " + name))
		case g.ID == m.NewGoalID:
			b.WriteString(t.GoalNew.Render("NEW  " + name))
		default:
			b.WriteString(t.GoalName.Render("     " + name))
		}
		b.WriteString("\n")

		bar := styles.RenderProgressBar(progressBarWidth, g.Progress)
		barStyle := t.GoalBar
		if g.IsComplete() {
			barStyle = t.GoalBarDone
		}
		b.WriteString("     ")
		b.WriteString(barStyle.Render(bar))
		b.WriteString(" ")
		b.WriteString(t.GoalPercent.Render(fmt.Sprintf("%d%%", g.Progress)))
		b.WriteString("\n")
	}

	return b.String()
}

// viewSession renders the last tutoring session summary.
func (m Model) viewSession(cw int) string {
	t := m.theme
	s := m.session

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(t.SidebarSection.Render("Last Session"))
	b.WriteString("\n")
	b.WriteString(t.SidebarValue.Render(util.TruncateWidth(s.Subject+" with "+s.Tutor, cw)))
	b.WriteString("\n")
	b.WriteString(t.SidebarLabel.Render(util.TruncateWidth(s.Date, cw)))
	b.WriteString("\n")

	if len(s.Topics) > 0 {
		b.WriteString(t.SidebarLabel.Render(util.TruncateWidth("Covered: "+strings.Join(s.Topics, ", "), cw)))
		b.WriteString("\n")
	}
	if len(s.Struggles) > 0 {
		b.WriteString(t.SidebarLabel.Render(util.TruncateWidth("Tricky: "+strings.Join(s.Struggles, ", "), cw)))
		b.WriteString("\n")
	}

	return b.String()
}

// maxTutorCards caps the escalation panel at the first few tutors.
const maxTutorCards = 3

// ViewTutors renders the tutor list panel shown after an escalation.
func (m Model) ViewTutors() string {
	t := m.theme
	cw := m.contentWidth()

	var b strings.Builder
	b.WriteString(t.TutorHeading.Render("Connect with a tutor"))
	b.WriteString("\n")

	if len(m.tutors) == 0 {
		b.WriteString(t.SidebarLabel.Render("No tutors available right now"))
	}

	tutors := m.tutors
	if len(tutors) > maxTutorCards {
		tutors = tutors[:maxTutorCards]
	}

	for i, tut := range tutors {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t.TutorName.Render(util.TruncateWidth(tut.Name, cw)))
		b.WriteString("\n")
		b.WriteString(t.TutorMeta.Render(util.TruncateWidth(strings.Join(tut.Subjects, ", "), cw)))
		b.WriteString("\n")
		if len(tut.Availability) > 0 {
			b.WriteString(t.TutorMeta.Render(util.TruncateWidth("Available: "+strings.Join(tut.Availability, ", "), cw)))
			b.WriteString("\n")
		}
		if tut.Bio != "" {
			b.WriteString(t.SidebarLabel.Render(wrap(tut.Bio, cw)))
			b.WriteString("\n")
		}
	}

	return t.TutorPanel.Width(m.width - 2).Render(b.String())
}

// wrap soft-wraps text to the given width using lipgloss.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
