// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/backend"
	"studybuddy/internal/config"
	"studybuddy/internal/goals"
	"studybuddy/internal/interpret"
	"studybuddy/internal/model"
	"studybuddy/internal/prompt"
	"studybuddy/internal/typing"
	"studybuddy/internal/ui/sidebar"
	"studybuddy/internal/ui/styles"
)

// =============================================================================
// CHAT PHASE
// =============================================================================

// Phase represents the current phase of a conversation turn.
type Phase int

const (
	PhaseIdle        Phase = iota // Ready for input
	PhaseDispatching              // Waiting on the backend
	PhaseRevealing                // Typing out the reply
	PhaseChaining                 // Goal chain steps in flight
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Phase
	phase Phase

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Student context
	store      *goals.Store
	interp     *interpret.Interpreter
	studentCtx *prompt.Context
	student    model.Student

	// Backend client
	client *backend.Client

	// Dispatch state. dispatchGen stamps each backend request so a
	// reply from a superseded dispatch is dropped.
	dispatchGen int

	// Reveal state. current is the bubble characters are appended to;
	// pending is the reveal event waiting on its tick.
	script    *typing.Script
	current   *model.Message
	pending   typing.Event
	revealGen int
	speed     float64

	// Goal chain state
	chainGen int

	// Sidebar and tutor panel
	sidebar     sidebar.Model
	showSidebar bool
	showTutors  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap
}

// New creates a chat model wired to the given configuration.
func New(cfg *config.Config, theme *styles.Theme) Model {
	student := model.MockStudent()
	session := model.MockSession()
	store := goals.NewStore(model.MockGoals())

	studentCtx := &prompt.Context{
		StudentName:       student.Name,
		LastSession:       &session,
		EmotionalPatterns: student.EmotionalPatterns,
		Interests:         student.Interests,
	}
	refreshGoalNames(studentCtx, store)

	ti := textinput.New()
	ti.Placeholder = "Message your study buddy..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.DotsSpinner.Frames,
		FPS:    styles.DotsSpinner.Duration(),
	}
	sp.Style = theme.Spinner

	vp := viewport.New(80, 20)

	sb := sidebar.New(theme, store, student, &session, model.MockTutors())

	// The welcome greeting is requested by Init, so the view starts in
	// the dispatching phase with input blocked.
	return Model{
		phase:        PhaseDispatching,
		theme:        theme,
		conversation: model.NewConversation(),
		store:        store,
		interp:       interpret.New(store, nil),
		studentCtx:   studentCtx,
		student:      student,
		client: backend.NewClientWithConfig(&backend.ClientConfig{
			URL:     cfg.Backend.URL,
			Timeout: cfg.Backend.TimeoutDuration(),
		}),
		speed:       cfg.Typing.SpeedMultiplier,
		sidebar:     sb,
		showSidebar: cfg.UI.ShowSidebar,
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		keyMap:      DefaultKeyMap(),
	}
}

// refreshGoalNames keeps the prompt context's goal list in sync with the
// store so the backend sees goal changes on the next turn.
func refreshGoalNames(ctx *prompt.Context, store *goals.Store) {
	ctx.CurrentGoals = store.Summaries()
}

// Init requests the welcome greeting and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.requestWelcome())
}

// Phase returns the current turn phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Conversation exposes the conversation for inspection.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// Store exposes the goal store for inspection.
func (m Model) Store() *goals.Store {
	return m.store
}

// ShowingTutors reports whether the tutor panel is visible.
func (m Model) ShowingTutors() bool {
	return m.showTutors
}
