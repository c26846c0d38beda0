// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt builds the system prompt sent to the language model.
//
// The base prompt defines the study-companion behavioral policy. Enhance
// appends a structured student-context block so the model can reference the
// student's goals, last session, and interests naturally. Both the TUI
// client and the proxy server use this package, so the block format is
// defined exactly once.
package prompt

import (
	"strings"

	"studybuddy/internal/model"
)

// BaseSystemPrompt is the fixed instruction prompt for the study companion.
const BaseSystemPrompt = `You are a study companion for high school/college students. Your role is to:

1. **Regulate first, teach second**: When students are overwhelmed, anxious, or spiraling, help them ground and focus before diving into content.

2. **Detect stress signals**:
   - Long rambling messages covering many topics
   - Negative self-talk ("I'm so behind", "I'll never get this")
   - Panic about timelines
   - Analysis paralysis

3. **Respond with empathy and action**:
   - Validate feelings
   - Help prioritize (pick ONE thing)
   - Reframe catastrophizing
   - Break big problems into tiny steps

4. **Know when to escalate to humans**:
   - Complex emotional situations
   - When student explicitly asks for human connection
   - When you've hit your limits on a concept
   - When you detect they need personal support

   When escalating, mention that you can connect them with a tutor who might be a good match.

5. **Use context naturally**:
   - Reference past struggles and wins if mentioned
   - Build on previous lessons
   - Celebrate progress

6. **Drive retention and growth**:
   - When student completes or nears a goal, celebrate and suggest related subjects:
     * SAT prep complete → mention college essays, AP courses, study skills
     * Chemistry mastered → suggest physics or other STEM subjects
     * Math goal achieved → recommend advanced math or related areas
   - If conversation suggests they haven't had a session recently, gently encourage booking with their tutor
   - Highlight progress across multiple goals to show growth

Remember: You're a study buddy, not a therapist. For serious mental health concerns, encourage them to talk to a counselor or trusted adult.

Be conversational, warm, and supportive.`

// WelcomePrompt is the fixed synthetic user message sent when the app opens.
const WelcomePrompt = "Hi! (This is the student opening the app. Greet them warmly " +
	"and naturally reference their last session, what they worked on, and what " +
	"they struggled with. Keep it friendly and conversational - 2-3 sentences max.)"

// =============================================================================
// STUDENT CONTEXT
// =============================================================================

// Context carries the per-student information folded into the system prompt.
// JSON tags match the studentContext field of the backend request.
type Context struct {
	StudentName       string         `json:"studentName"`
	CurrentGoals      []string       `json:"currentGoals"`
	LastSession       *model.Session `json:"lastSession,omitempty"`
	EmotionalPatterns []string       `json:"emotionalPatterns,omitempty"`
	Interests         []string       `json:"interests,omitempty"`
}

// Block renders the student-context block appended to the base prompt.
//
// Deterministic and side-effect free. Every optional section whose
// underlying list is empty is omitted entirely; an empty bulleted section is
// never emitted.
func (c *Context) Block() string {
	var b strings.Builder

	b.WriteString("\n\n## Student Context (Use this naturally in conversation):\n\n")
	b.WriteString("**Student Name:** " + c.StudentName + "\n\n")

	if len(c.CurrentGoals) > 0 {
		b.WriteString("**Current Learning Goals:**\n")
		for _, goal := range c.CurrentGoals {
			b.WriteString("- " + goal + "\n")
		}
		b.WriteString("\n")
	}

	if c.LastSession != nil {
		b.WriteString("**Last Tutoring Session:**\n")
		b.WriteString("- Date: " + c.LastSession.Date + "\n")
		b.WriteString("- Tutor: " + c.LastSession.Tutor + "\n")
		b.WriteString("- Subject: " + c.LastSession.Subject + "\n")
		b.WriteString("- Topics covered: " + strings.Join(c.LastSession.Topics, ", ") + "\n")
		if len(c.LastSession.Struggles) > 0 {
			b.WriteString("- Struggled with: " + strings.Join(c.LastSession.Struggles, ", ") + "\n")
		}
		b.WriteString("\n")
	}

	if len(c.EmotionalPatterns) > 0 {
		b.WriteString("**Known Emotional Patterns:**\n")
		for _, pattern := range c.EmotionalPatterns {
			b.WriteString("- " + pattern + "\n")
		}
		b.WriteString("\n")
	}

	if len(c.Interests) > 0 {
		b.WriteString("**Personal Interests:** " + strings.Join(c.Interests, ", ") + "\n\n")
	}

	b.WriteString("Remember to reference this context naturally when relevant, " +
		"but don't dump it all at once. Build rapport by showing you remember their journey.")

	return b.String()
}

// Enhance appends the student-context block to a base system prompt.
// A nil context returns the base prompt unchanged.
func Enhance(base string, c *Context) string {
	if c == nil {
		return base
	}
	return base + c.Block()
}
