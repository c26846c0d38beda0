// Study Buddy - a terminal study companion for students.
//
// Copyright (c) 2025 Study Buddy Project
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/config"
	"studybuddy/internal/ui/chat"
	"studybuddy/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a config file (TOML or JSON)")
		backendURL  = flag.String("backend", "", "chat proxy URL (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("studybuddy %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}
	config.SetGlobal(cfg)

	// Hot reload picks up edits to the config directory while the app
	// runs. Best effort: the watcher is optional on platforms where
	// inotify is unavailable.
	if watcher, err := config.NewWatcher(500*time.Millisecond, nil); err == nil {
		if watcher.Watch() == nil {
			defer watcher.Close()
		} else {
			watcher.Close()
		}
	}

	theme := styles.NewTheme()
	app := appModel{chat: chat.New(cfg, theme)}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// =============================================================================
// APP MODEL
// =============================================================================

// appModel adapts the chat model to the tea.Model interface.
type appModel struct {
	chat chat.Model
}

func (a appModel) Init() tea.Cmd {
	return a.chat.Init()
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a appModel) View() string {
	return a.chat.View()
}
