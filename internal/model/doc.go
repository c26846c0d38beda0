// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package model contains the data structures for conversations, messages, and
the student domain.

# Key Types

  - Message: a single chat message with a stable ID and append-only content.
    Assistant messages start as empty shells and grow character by character
    while the typing renderer reveals them; once settled their content never
    changes again.
  - Conversation: an append-only ordered sequence of messages held for the
    lifetime of a session. Nothing is ever deleted from it.
  - Goal: a tracked learning objective with a progress percentage and an
    active/completed status.
  - Student, Session, Tutor: read-only profile records shown in the sidebar
    and folded into the system prompt.

The package has no dependencies on the UI or network layers.
*/
package model
