package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/ludo/game/config"
	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/game/sim"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, sessions, err := initializeServices(ctx, "configs", zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil || sessions == nil {
		t.Fatal("Expected game service and session manager to be initialized")
	}

	info, err := gameService.CreateSession(ctx, "classic")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", sessions.Count())
	}
	if info.GameConfig.Name == "" {
		t.Error("Expected session config to have a name")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, _, err := initializeServices(context.Background(), "/non/existent/path", zap.NewNop())
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestCommandTree(t *testing.T) {
	cmd := newCommand()

	want := []string{"play", "simulate", "mcp", "validate", "configs"}
	if len(cmd.Commands) != len(want) {
		t.Fatalf("Expected %d commands, got %d", len(want), len(cmd.Commands))
	}
	for i, name := range want {
		if cmd.Commands[i].Name != name {
			t.Errorf("Command %d: expected %s, got %s", i, name, cmd.Commands[i].Name)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{"ludo", "--log-level", "error", "validate", "configs"})
	if err != nil {
		t.Errorf("Expected shipped configs to validate, got %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{"ludo", "--log-level", "loud", "configs"})
	if err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	invalid := printValidation(&buf, []config.ValidationResult{
		{File: "good.json", Valid: true, Info: []string{"✓ 4 players"}},
		{File: "bad.json", Errors: []string{"Failed to parse"}},
	})

	if invalid != 1 {
		t.Errorf("Expected 1 invalid file, got %d", invalid)
	}
	out := buf.String()
	for _, s := range []string{"✅ good.json", "❌ bad.json", "error: Failed to parse", "2 files checked, 1 invalid"} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected output to contain %q:\n%s", s, out)
		}
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &sim.Report{
		Games:        4,
		Wins:         map[engine.Color]int{engine.Yellow: 3, engine.Blue: 1},
		AverageTurns: 80.5,
		LongestGame:  sim.GameResult{Game: 2, Turns: 120, Seed: 9},
	})

	out := buf.String()
	for _, s := range []string{"yellow", "3 wins (75.0%)", "Average turns: 80.5", "Longest game: #2, 120 turns (seed 9)"} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected output to contain %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "red") {
		t.Errorf("Colors without wins should be omitted:\n%s", out)
	}
}
