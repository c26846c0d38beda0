// studyproxy - the chat proxy between the Study Buddy TUI and Anthropic.
//
// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studybuddy/internal/anthropic"
	"studybuddy/internal/config"
	"studybuddy/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath = flag.String("config", "", "path to a config file (TOML or JSON)")
		addr       = flag.String("addr", "", "listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Proxy.Addr = *addr
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	client := anthropic.NewClient(cfg.Proxy.AnthropicKey).
		WithBaseURL(cfg.Proxy.AnthropicURL).
		WithModel(cfg.Proxy.Model).
		WithMaxTokens(cfg.Proxy.MaxTokens)

	if !client.IsConfigured() {
		logger.Println("WARNING: no API key configured, set ANTHROPIC_API_KEY")
	} else {
		logger.Printf("Using API key %s", client.APIKeyMasked())
	}

	srv := server.NewServer(cfg.Proxy.Addr).
		WithUpstream(client).
		WithLogger(logger)
	if cfg.Proxy.RateLimitRPS > 0 {
		srv.WithRateLimiter(server.NewRateLimiter(cfg.Proxy.RateLimitRPS, cfg.Proxy.RateBurst))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Listening on %s", cfg.Proxy.Addr)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	case sig := <-sigCh:
		logger.Printf("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
