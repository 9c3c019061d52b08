package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/ludo/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

const duelYAML = `name: duel
description: Two players across the board
players:
  - color: yellow
    name: Ana
  - color: green
    ai: true
rules:
  capture_grants_bonus: true
`

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing default config falls back to built-in table", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got error: %v", err)
		}
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil || defaultConfig.Name != "classic" {
			t.Errorf("Expected built-in classic config, got %+v", defaultConfig)
		}
	})

	t.Run("first file when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "duel.yaml", duelYAML)
		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "duel" {
			t.Errorf("Expected duel as default, got %s", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "duel.yaml", duelYAML)
	writeFile(t, dir, "broken.json", `{"name": "broken", "players": [{"color": "yellow"}]}`)
	writeFile(t, dir, "garbled.json", `{"name": `)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SaveConfig("custom", createValidConfig()); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	tests := []struct {
		name       string
		configName string
		wantName   string
		wantErr    error
	}{
		{name: "json without extension", configName: "custom", wantName: "Test Config"},
		{name: "yaml without extension", configName: "duel", wantName: "duel"},
		{name: "yaml with extension", configName: "duel.yaml", wantName: "duel"},
		{name: "missing", configName: "nonexistent", wantErr: ErrConfigNotFound},
		{name: "path traversal", configName: "../duel", wantErr: ErrConfigNotFound},
		{name: "invalid", configName: "broken", wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := manager.LoadConfig(tt.configName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if config.Name != tt.wantName {
				t.Errorf("Expected name %q, got %q", tt.wantName, config.Name)
			}
		})
	}

	t.Run("unparseable", func(t *testing.T) {
		if _, err := manager.LoadConfig("garbled"); err == nil {
			t.Error("Expected parse error")
		}
	})

	t.Run("yaml fields and defaults", func(t *testing.T) {
		config, err := manager.LoadConfig("duel")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if !config.Rules.CaptureGrantsBonus {
			t.Error("Expected capture bonus rule from YAML")
		}
		if config.Players[1].Name != "Green" {
			t.Errorf("Expected default name Green, got %q", config.Players[1].Name)
		}
		if config.Track.SharedLength != engine.DefaultTrackLayout().SharedLength {
			t.Error("Expected default track to be filled in")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "duel.yaml", duelYAML)
	writeFile(t, dir, "broken.json", `{"name": "broken"}`)
	writeFile(t, dir, "notes.txt", "not a config")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SaveConfig("classic", engine.DefaultConfig()); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "classic" || configs[1].ConfigID != "duel" {
		t.Errorf("Unexpected config IDs: %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	duel := configs[1]
	if duel.Filename != "duel.yaml" || duel.Players != 2 || duel.AIPlayers != 1 || !duel.CaptureGrantsBonus {
		t.Errorf("Unexpected duel info: %+v", duel)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json round trip", func(t *testing.T) {
		if err := manager.SaveConfig("saved", createValidConfig()); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		loaded, err := engine.LoadGameConfig(filepath.Join(dir, "saved.json"))
		if err != nil {
			t.Fatalf("Failed to reload saved file: %v", err)
		}
		if loaded.Name != "Test Config" || len(loaded.Players) != 4 {
			t.Errorf("Unexpected reloaded config: %+v", loaded)
		}
	})

	t.Run("yaml by extension", func(t *testing.T) {
		if err := manager.SaveConfig("saved.yml", createValidConfig()); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		if _, err := engine.LoadGameConfig(filepath.Join(dir, "saved.yml")); err != nil {
			t.Errorf("Failed to reload YAML file: %v", err)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		bad := createValidConfig()
		bad.Players = bad.Players[:1]
		if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
			t.Error("Invalid config should not be written")
		}
	})

	t.Run("bad name rejected", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "duel.yaml", duelYAML)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}

	classic := engine.DefaultConfig()
	classic.Description = "house rules"
	if err := manager.SaveConfig("classic", classic); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if manager.GetDefault().Description != "house rules" {
		t.Errorf("Expected classic to become default after refresh, got %q", manager.GetDefault().Description)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "duel.yaml", duelYAML)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("duel"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent load failed: %v", err)
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "duel.yaml", duelYAML)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	first, _ := manager.LoadConfig("duel")
	second, _ := manager.LoadConfig("duel.yaml")
	if first != second {
		t.Error("Expected the cached config to be shared across name forms")
	}
}
