// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the chat proxy.
//
// The client issues a single POST per conversation turn and returns the
// first text segment of the assistant's reply. It never retries: pacing and
// fallback behavior belong to the calling flow.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the chat backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrEmptyReply = &ClientError{Type: ErrTypeInvalidResponse, Message: "response contained no text segment"}
)

// =============================================================================
// FALLBACK MESSAGES
// =============================================================================

// Fixed fallback texts shown when a turn fails. The welcome exchange gets
// its own in-character greeting; every later turn gets the generic apology.
const (
	FallbackError   = "Sorry, I encountered an error. Please try again."
	FallbackWelcome = "Hey! Welcome back. What would you like to work on today?"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// URL is the full chat endpoint (default: http://localhost:3001/api/chat).
	URL string

	// Timeout for a chat request (default: 60s).
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		URL:     "http://localhost:3001/api/chat",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// maxResponseSize caps the response body read to guard against a
// misbehaving backend.
const maxResponseSize = 10 * 1024 * 1024

// Client handles communication with the chat proxy.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.URL == "" {
		config.URL = "http://localhost:3001/api/chat"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// URL returns the configured chat endpoint.
func (c *Client) URL() string {
	return c.config.URL
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one conversation turn and returns the first text segment of
// the assistant's reply. The reply is opaque raw text; it may contain
// embedded blank lines that the typing renderer treats as paragraph breaks.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ClientError{
			Type:    ErrTypeBadStatus,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	var parsed ChatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed response body", Cause: err}
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", ErrEmptyReply
	}

	return parsed.Content[0].Text, nil
}

// trimContent trims surrounding whitespace from outgoing message content.
func trimContent(s string) string {
	return strings.TrimSpace(s)
}
