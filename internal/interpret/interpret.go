// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package interpret scans settled assistant replies for escalation and
// goal-progress signals.
//
// The matcher is a pluggable policy: Classifier maps settled text to a
// signal set, and the keyword implementation can be swapped for a smarter
// classifier without touching the chat state machine. Keyword matching is a
// deliberate precision/recall trade-off; a miss is not an error.
package interpret

import (
	"strings"
	"time"

	"studybuddy/internal/goals"
	"studybuddy/internal/model"
)

// =============================================================================
// SIGNALS
// =============================================================================

// Signals is the outcome of classifying one settled reply.
type Signals struct {
	// Escalate means the reply suggested connecting with a human tutor;
	// the tutor panel should be shown.
	Escalate bool

	// SATProgress means the reply celebrated SAT progress or completion;
	// the goal-completion chain may fire if an unfinished SAT goal exists.
	SATProgress bool
}

// Classifier maps settled reply text to a signal set.
type Classifier interface {
	Classify(text string) Signals
}

// =============================================================================
// KEYWORD CLASSIFIER
// =============================================================================

// Keyword lists for the default policy. These are intentionally literal:
// they reproduce the shipped heuristics and double as test fixtures.
var (
	escalationWords = []string{"tutor", "connect", "human"}

	completionWords = []string{"complete", "finished", "done", "ready"}

	positiveWords = []string{
		"great", "awesome", "excellent", "good", "going well", "confident",
		"progress", "doing well", "fantastic", "congrats", "well done",
	}
)

// KeywordClassifier is the default substring-matching policy.
type KeywordClassifier struct{}

// Classify runs the case-insensitive keyword heuristics over the text.
func (KeywordClassifier) Classify(text string) Signals {
	content := strings.ToLower(text)

	var sig Signals
	sig.Escalate = containsAny(content, escalationWords)

	hasSAT := strings.Contains(content, "sat")
	hasCompletion := containsAny(content, completionWords)
	hasPositive := containsAny(content, positiveWords)
	sig.SATProgress = hasSAT && (hasCompletion || hasPositive)

	return sig
}

func containsAny(content string, words []string) bool {
	for _, w := range words {
		if strings.Contains(content, w) {
			return true
		}
	}
	return false
}

// =============================================================================
// GOAL-COMPLETION CHAIN
// =============================================================================

// Delays between the steps of the goal-completion chain.
const (
	CompleteGoalDelay = 2000 * time.Millisecond
	AddGoalDelay      = 1500 * time.Millisecond
	FollowUpDelay     = 500 * time.Millisecond
)

// The suggested follow-on goal added after SAT completion.
const (
	EssayGoalID   = "goal_essays"
	EssayGoalName = "College Essays"
)

// FollowUpText is the auto-generated assistant message announcing the new
// goal.
const FollowUpText = "Oh! I just added College Essays to your goals. Since " +
	"you're crushing the SAT, that's the natural next step. Want to start " +
	"brainstorming topics?"

// Interpreter applies classified signals to the goal store. It never fails
// overtly: heuristic non-matches and missing goals are silent no-ops.
type Interpreter struct {
	classifier Classifier
	store      *goals.Store
}

// New creates an interpreter over the given store. A nil classifier gets
// the keyword policy.
func New(store *goals.Store, classifier Classifier) *Interpreter {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	return &Interpreter{classifier: classifier, store: store}
}

// Classify runs the configured policy over settled text.
func (it *Interpreter) Classify(text string) Signals {
	return it.classifier.Classify(text)
}

// SATGoalToComplete returns the SAT goal the completion chain should fire
// for. The chain fires at most once per goal: a goal already at 100
// progress is not returned.
func (it *Interpreter) SATGoalToComplete() (model.Goal, bool) {
	g, ok := it.store.FindByNameContains("sat")
	if !ok || g.Progress >= 100 {
		return model.Goal{}, false
	}
	return g, true
}

// CompleteGoal is chain step one: set the goal to 100% and completed.
// Unknown ids are a no-op.
func (it *Interpreter) CompleteGoal(id string) {
	it.store.Update(id, 100, model.GoalCompleted)
}

// AddEssayGoal is chain step two: add the College Essays goal, unless a
// goal with "essay" in its name already exists. Returns true when the goal
// was added; step three (the follow-up message) only runs in that case.
func (it *Interpreter) AddEssayGoal() bool {
	if it.store.HasNameContaining("essay") {
		return false
	}
	it.store.Add(model.Goal{
		ID:       EssayGoalID,
		Name:     EssayGoalName,
		Progress: 0,
		Status:   model.GoalActive,
	})
	return true
}
