// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Static fixture data for the demo session. There is no durable storage;
// every page session starts from these records.

// MockStudent returns the demo student profile.
func MockStudent() Student {
	return Student{
		ID:                "student_789",
		Name:              "Alex",
		Interests:         []string{"Basketball", "Music production"},
		EmotionalPatterns: []string{"Test anxiety", "Perfectionism"},
	}
}

// MockGoals returns the demo student's starting goals.
func MockGoals() []Goal {
	return []Goal{
		{ID: "goal_sat", Name: "SAT Math", Progress: 40, Status: GoalActive},
		{ID: "goal_calc", Name: "Calc AB", Progress: 20, Status: GoalActive},
	}
}

// MockSession returns the demo student's last tutoring session.
func MockSession() Session {
	return Session{
		ID:        "session_123",
		Date:      "2024-10-30",
		Tutor:     "Sarah Chen",
		Subject:   "Algebra",
		Topics:    []string{"Quadratic equations", "Factoring"},
		Struggles: []string{"Grouping method"},
		Transcript: "Student struggled with factoring by grouping. We practiced " +
			"several examples and discussed patterns. Next session: more practice " +
			"with grouping method.",
	}
}

// MockTutors returns the demo tutor roster for the escalation panel.
func MockTutors() []Tutor {
	return []Tutor{
		{
			ID:           "tutor_456",
			Name:         "Jake Morrison",
			Subjects:     []string{"Math", "Physics"},
			Interests:    []string{"Rock climbing", "Video games"},
			Bio:          "CS grad student who loves making math click",
			Availability: []string{"Tomorrow 3pm", "Friday 2pm", "Saturday 10am"},
			ConnectionPoints: []string{
				"Also has ADHD",
				"Loves video games",
				"Great at breaking down complex problems",
			},
		},
		{
			ID:           "tutor_789",
			Name:         "Sarah Chen",
			Subjects:     []string{"Algebra", "Calculus"},
			Interests:    []string{"Music", "Basketball"},
			Bio:          "Former teacher, now tutor specializing in math anxiety",
			Availability: []string{"Today 4pm", "Thursday 3pm"},
			ConnectionPoints: []string{
				"Your last tutor",
				"Specializes in test anxiety",
				"Plays basketball too",
			},
		},
		{
			ID:           "tutor_101",
			Name:         "Marcus Johnson",
			Subjects:     []string{"Chemistry", "Physics"},
			Interests:    []string{"Music production", "Science experiments"},
			Bio:          "Chemistry PhD student who makes learning fun",
			Availability: []string{"Friday 5pm", "Sunday 2pm"},
			ConnectionPoints: []string{
				"Also loves music production",
				"Great at time management",
				"Knows the struggle",
			},
		},
	}
}
