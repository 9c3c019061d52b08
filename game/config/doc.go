// Package config provides configuration management for Ludo tables.
//
// The config package handles:
//   - Loading game configurations from JSON or YAML files
//   - Default configuration selection
//   - Configuration discovery and listing
//   - File validation with warnings for odd but playable tables
//
// Configuration Format:
//
// Each file in the configs directory describes one table: the seated
// players (color, display name, AI or human), the track layout, the rule
// toggles and the status messages. Unset track and message fields take the
// classic values, so a file may be as small as a name and a player list.
//
// The configuration ID is the file name without its extension. When
// classic is missing the first loadable file becomes the default, and when
// the directory holds nothing usable the built-in classic table is used.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("duel")
//	configs, err := manager.ListConfigs()
//
//	results, err := config.ValidateDir("configs")
package config
