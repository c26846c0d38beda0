// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the chat proxy that sits between the TUI
// and the Anthropic API. It enhances the system prompt with student
// context, forwards the conversation upstream, and passes the provider
// response back untouched. The API key never reaches the client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"studybuddy/internal/anthropic"
	"studybuddy/internal/backend"
	"studybuddy/internal/prompt"
)

// maxRequestSize caps the request body read.
const maxRequestSize = 1 * 1024 * 1024 // 1MB

// =============================================================================
// SERVER
// =============================================================================

// Server is the chat proxy HTTP server.
type Server struct {
	addr     string
	upstream *anthropic.Client
	logger   *log.Logger

	mux        *http.ServeMux
	httpServer *http.Server
	limiter    *RateLimiter
}

// NewServer creates a proxy server listening on addr.
func NewServer(addr string) *Server {
	s := &Server{
		addr:   addr,
		logger: log.New(os.Stderr, "", 0),
		mux:    http.NewServeMux(),
	}
	return s
}

// WithUpstream sets the Anthropic client used for forwarding.
func (s *Server) WithUpstream(client *anthropic.Client) *Server {
	s.upstream = client
	return s
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(logger *log.Logger) *Server {
	s.logger = logger
	return s
}

// WithRateLimiter enables per-client rate limiting.
func (s *Server) WithRateLimiter(limiter *RateLimiter) *Server {
	s.limiter = limiter
	return s
}

// setupRoutes registers all HTTP routes with their middleware.
func (s *Server) setupRoutes() {
	middlewares := []func(http.Handler) http.Handler{
		RecoveryMiddleware(),
		LoggingMiddleware(s.logger),
		CORSMiddleware(),
	}
	if s.limiter != nil {
		middlewares = append(middlewares, RateLimitMiddleware(s.limiter))
	}
	chain := Chain(middlewares...)

	s.mux.Handle("/api/chat", chain(http.HandlerFunc(s.handleChat)))
	s.mux.Handle("/health", chain(http.HandlerFunc(s.handleHealth)))
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// handleChat forwards a conversation to the upstream provider.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req backend.ChatRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msgs, err := upstreamMessages(req.Messages)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	system := prompt.Enhance(req.System, req.StudentContext)

	raw, err := s.upstream.Messages(r.Context(), system, msgs)
	if err != nil {
		s.logger.Printf("UPSTREAM_ERROR | %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get response from Claude")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		s.logger.Printf("WRITE_ERROR | %v", err)
	}
}

// upstreamMessages validates and converts the wire messages.
func upstreamMessages(msgs []backend.Message) ([]anthropic.Message, error) {
	if len(msgs) == 0 {
		return nil, errors.New("messages must not be empty")
	}

	out := make([]anthropic.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != "user" && m.Role != "assistant" {
			return nil, errors.New("message role must be user or assistant")
		}
		if m.Content == "" {
			return nil, errors.New("message content must not be empty")
		}
		out = append(out, anthropic.Message{Role: m.Role, Content: m.Content})
	}
	return out, nil
}

// =============================================================================
// HEALTH HANDLER
// =============================================================================

// HealthResponse is the /health response body.
type HealthResponse struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := HealthResponse{
		Status:     "ok",
		Configured: s.upstream != nil && s.upstream.IsConfigured(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Handler returns the fully wired HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	s.setupRoutes()
	return s.mux
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Printf("Chat proxy listening on %s", s.addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
