// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package goals provides the in-memory goal store.
//
// The store is the single writable owner of goal records. Everything else
// (the sidebar, the context builder, the reply interpreter's guards) works
// on copied snapshots, so the single-writer invariant is enforced by the
// type system rather than by convention.
package goals

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"studybuddy/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// Store holds the live goal list for one session.
//
// All mutation happens on the Bubble Tea update loop, but reads can come
// from command goroutines (e.g. building the request payload), so access is
// guarded by a mutex anyway.
type Store struct {
	mu    sync.RWMutex
	goals []model.Goal
}

// NewStore creates a store seeded with the given goals. The slice is copied.
func NewStore(initial []model.Goal) *Store {
	s := &Store{goals: make([]model.Goal, len(initial))}
	copy(s.goals, initial)
	return s
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Update finds the goal by id and replaces its progress and, when status is
// non-empty, its status. All other goals are untouched. Updating an unknown
// id is a no-op; the return value reports whether a goal was changed.
func (s *Store) Update(id string, progress int, status model.GoalStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		s.goals[i].Progress = clampProgress(progress)
		if status != "" {
			s.goals[i].Status = status
		}
		return true
	}
	return false
}

// Add appends a new goal record. The store does not reject duplicates; the
// caller is responsible for uniqueness checks. A goal with no ID gets a
// generated one.
func (s *Store) Add(g model.Goal) model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = "goal_" + uuid.NewString()[:8]
	}
	if g.Status == "" {
		g.Status = model.GoalActive
	}
	g.Progress = clampProgress(g.Progress)
	s.goals = append(s.goals, g)
	return g
}

// =============================================================================
// READS
// =============================================================================

// Snapshot returns a copy of the current goal list. Mutating the returned
// slice has no effect on the store.
func (s *Store) Snapshot() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Find returns the goal with the given id.
func (s *Store) Find(id string) (model.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return model.Goal{}, false
}

// FindByNameContains returns the first goal whose name contains the given
// substring, case-insensitively. This is the duplicate-name check used by
// the reply interpreter.
func (s *Store) FindByNameContains(substr string) (model.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(substr)
	for _, g := range s.goals {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			return g, true
		}
	}
	return model.Goal{}, false
}

// HasNameContaining reports whether any goal name contains the substring,
// case-insensitively.
func (s *Store) HasNameContaining(substr string) bool {
	_, ok := s.FindByNameContains(substr)
	return ok
}

// Count returns the number of goals in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.goals)
}

// Summaries returns one "<name> (<progress>% complete)" line per goal, in
// store order. This is the shape the context builder sends to the backend.
func (s *Store) Summaries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g.Name+" ("+strconv.Itoa(g.Progress)+"% complete)")
	}
	return out
}

// clampProgress keeps progress within 0-100.
func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
