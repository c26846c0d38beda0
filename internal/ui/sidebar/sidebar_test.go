// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package sidebar

import (
	"strings"
	"testing"

	"studybuddy/internal/goals"
	"studybuddy/internal/model"
	"studybuddy/internal/ui/styles"
)

func newTestSidebar() Model {
	session := model.MockSession()
	sb := New(styles.NewTheme(), goals.NewStore(model.MockGoals()), model.MockStudent(), &session, model.MockTutors())
	sb.SetSize(36, 40)
	return sb
}

func TestViewShowsStudentAndGoals(t *testing.T) {
	sb := newTestSidebar()
	out := sb.View()

	for _, want := range []string{"Alex", "SAT Math", "40%", "Calc AB", "20%"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewShowsLastSession(t *testing.T) {
	sb := newTestSidebar()
	out := sb.View()

	if !strings.Contains(out, "Sarah Chen") {
		t.Error("View() missing last session tutor")
	}
	if !strings.Contains(out, "2024-10-30") {
		t.Error("View() missing last session date")
	}
}

func TestViewReflectsStoreUpdates(t *testing.T) {
	store := goals.NewStore(model.MockGoals())
	session := model.MockSession()
	sb := New(styles.NewTheme(), store, model.MockStudent(), &session, nil)
	sb.SetSize(36, 40)

	store.Update("goal_sat", 100, model.GoalCompleted)

	out := sb.View()
	if !strings.Contains(out, "100%") {
		t.Error("View() did not reflect updated progress")
	}
	if !strings.Contains(out, "[OK]") {
		t.Error("completed goal should carry the [OK] marker")
	}
}

func TestViewHighlightsNewGoal(t *testing.T) {
	store := goals.NewStore(model.MockGoals())
	added := store.Add(model.Goal{ID: "goal_essays", Name: "College Essays"})

	session := model.MockSession()
	sb := New(styles.NewTheme(), store, model.MockStudent(), &session, nil)
	sb.SetSize(36, 40)
	sb.NewGoalID = added.ID

	out := sb.View()
	if !strings.Contains(out, "NEW") {
		t.Error("just-added goal should carry the NEW badge")
	}
	if !strings.Contains(out, "College Essays") {
		t.Error("View() missing added goal name")
	}
}

func TestViewNoSession(t *testing.T) {
	sb := New(styles.NewTheme(), goals.NewStore(nil), model.MockStudent(), nil, nil)
	sb.SetSize(36, 40)

	out := sb.View()
	if strings.Contains(out, "Last Session") {
		t.Error("View() should omit session section when there is none")
	}
	if !strings.Contains(out, "No goals yet") {
		t.Error("View() should show the empty-goals placeholder")
	}
}

func TestViewTutors(t *testing.T) {
	sb := newTestSidebar()
	out := sb.ViewTutors()

	if !strings.Contains(out, "Connect with a tutor") {
		t.Error("ViewTutors() missing heading")
	}
	for _, tut := range model.MockTutors() {
		if !strings.Contains(out, tut.Name) {
			t.Errorf("ViewTutors() missing tutor %q", tut.Name)
		}
	}
}

func TestViewTutorsCapsCards(t *testing.T) {
	tutors := []model.Tutor{
		{ID: "t1", Name: "Tutor One", Subjects: []string{"Math"}},
		{ID: "t2", Name: "Tutor Two", Subjects: []string{"English"}},
		{ID: "t3", Name: "Tutor Three", Subjects: []string{"Physics"}},
		{ID: "t4", Name: "Tutor Four", Subjects: []string{"History"}},
	}
	sb := New(styles.NewTheme(), goals.NewStore(nil), model.MockStudent(), nil, tutors)
	sb.SetSize(36, 40)

	out := sb.ViewTutors()
	for _, name := range []string{"Tutor One", "Tutor Two", "Tutor Three"} {
		if !strings.Contains(out, name) {
			t.Errorf("ViewTutors() missing tutor %q", name)
		}
	}
	if strings.Contains(out, "Tutor Four") {
		t.Error("ViewTutors() should show at most three tutors")
	}
}

func TestViewTutorsEmpty(t *testing.T) {
	sb := New(styles.NewTheme(), goals.NewStore(nil), model.MockStudent(), nil, nil)
	sb.SetSize(36, 40)

	out := sb.ViewTutors()
	if !strings.Contains(out, "No tutors available") {
		t.Error("ViewTutors() missing empty placeholder")
	}
}
