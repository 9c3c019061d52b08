package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// PlayerConfig seats one color at the table
type PlayerConfig struct {
	Color string `json:"color" yaml:"color"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	AI    bool   `json:"ai" yaml:"ai"`
}

// Rules holds optional rule switches
type Rules struct {
	// CaptureGrantsBonus awards a bonus roll after a capture, resolved like the finish bonus.
	CaptureGrantsBonus bool `json:"capture_grants_bonus" yaml:"capture_grants_bonus"`
}

// Messages are the status texts shown to players. Each takes the player
// name as its first argument.
type Messages struct {
	TurnChanged  string `json:"turn_changed" yaml:"turn_changed"`
	Rolled       string `json:"rolled" yaml:"rolled"`
	BonusSix     string `json:"bonus_six" yaml:"bonus_six"`
	BonusFinish  string `json:"bonus_finish" yaml:"bonus_finish"`
	BonusCapture string `json:"bonus_capture" yaml:"bonus_capture"`
	Skipped      string `json:"skipped" yaml:"skipped"`
	Forfeited    string `json:"forfeited" yaml:"forfeited"`
	Resumed      string `json:"resumed" yaml:"resumed"`
	Moved        string `json:"moved" yaml:"moved"`
	Captured     string `json:"captured" yaml:"captured"`
	GameOver     string `json:"game_over" yaml:"game_over"`
}

// DefaultMessages returns the built-in status texts.
func DefaultMessages() Messages {
	return Messages{
		TurnChanged:  "%s to roll",
		Rolled:       "%s rolled %d",
		BonusSix:     "%s rolled a six and rolls again",
		BonusFinish:  "%s reached home and earns a bonus roll",
		BonusCapture: "%s captured a piece and earns a bonus roll",
		Skipped:      "%s has no move for %d",
		Forfeited:    "%s rolled three sixes and loses the turn",
		Resumed:      "%s resumes with remaining rolls",
		Moved:        "%s moved piece %d",
		Captured:     "%s captured %s",
		GameOver:     "%s wins the game!",
	}
}

// GameConfig describes a table: who plays, on which track, under which rules
type GameConfig struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Players     []PlayerConfig `json:"players" yaml:"players"`
	Track       TrackLayout    `json:"track" yaml:"track"`
	Rules       Rules          `json:"rules" yaml:"rules"`
	Messages    Messages       `json:"messages" yaml:"messages"`
}

// DefaultConfig returns the classic four-player table with one human and three AIs.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Classic four-player Ludo",
		Players: []PlayerConfig{
			{Color: Yellow.String(), Name: "Yellow"},
			{Color: Red.String(), Name: "Red", AI: true},
			{Color: Green.String(), Name: "Green", AI: true},
			{Color: Blue.String(), Name: "Blue", AI: true},
		},
		Track:    DefaultTrackLayout(),
		Messages: DefaultMessages(),
	}
}

// ApplyDefaults fills unset track and message fields from the classic table.
func (c *GameConfig) ApplyDefaults() {
	def := DefaultTrackLayout()
	if c.Track.SharedLength == 0 {
		c.Track.SharedLength = def.SharedLength
	}
	if c.Track.StretchLength == 0 {
		c.Track.StretchLength = def.StretchLength
	}
	if len(c.Track.Entries) == 0 {
		c.Track.Entries = def.Entries
	}
	if c.Track.SafeSquares == nil {
		c.Track.SafeSquares = def.SafeSquares
	}

	dm := DefaultMessages()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Messages.TurnChanged, dm.TurnChanged)
	fill(&c.Messages.Rolled, dm.Rolled)
	fill(&c.Messages.BonusSix, dm.BonusSix)
	fill(&c.Messages.BonusFinish, dm.BonusFinish)
	fill(&c.Messages.BonusCapture, dm.BonusCapture)
	fill(&c.Messages.Skipped, dm.Skipped)
	fill(&c.Messages.Forfeited, dm.Forfeited)
	fill(&c.Messages.Resumed, dm.Resumed)
	fill(&c.Messages.Moved, dm.Moved)
	fill(&c.Messages.Captured, dm.Captured)
	fill(&c.Messages.GameOver, dm.GameOver)

	for i := range c.Players {
		color := strings.ToLower(strings.TrimSpace(c.Players[i].Color))
		if c.Players[i].Name == "" && color != "" {
			c.Players[i].Name = strings.ToUpper(color[:1]) + color[1:]
		}
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	if len(config.Players) < MinPlayers || len(config.Players) > MaxPlayers {
		return fmt.Errorf("%w: players must number between %d and %d, got %d",
			ErrInvalidConfig, MinPlayers, MaxPlayers, len(config.Players))
	}
	seen := make(map[Color]bool)
	for i, p := range config.Players {
		c, err := ParseColor(p.Color)
		if err != nil {
			return fmt.Errorf("%w: player %d: %v", ErrInvalidConfig, i+1, err)
		}
		if seen[c] {
			return fmt.Errorf("%w: color %s seated twice", ErrInvalidConfig, c)
		}
		seen[c] = true
	}

	if err := config.Track.Validate(); err != nil {
		return err
	}

	return validateMessages(config.Messages)
}

// validateMessages formats every message with the arguments the turn
// controller passes and rejects any that fmt reports as mismatched.
func validateMessages(m Messages) error {
	const player = "Yellow"
	checks := []struct {
		key   string
		msg   string
		verbs string
		args  []interface{}
	}{
		{"turn_changed", m.TurnChanged, "%s", []interface{}{player}},
		{"rolled", m.Rolled, "%s, %d", []interface{}{player, DieFaces}},
		{"bonus_six", m.BonusSix, "%s", []interface{}{player}},
		{"bonus_finish", m.BonusFinish, "%s", []interface{}{player}},
		{"bonus_capture", m.BonusCapture, "%s", []interface{}{player}},
		{"skipped", m.Skipped, "%s, %d", []interface{}{player, DieFaces}},
		{"forfeited", m.Forfeited, "%s", []interface{}{player}},
		{"resumed", m.Resumed, "%s", []interface{}{player}},
		{"moved", m.Moved, "%s, %d", []interface{}{player, 0}},
		{"captured", m.Captured, "%s, %s", []interface{}{player, PieceRef{Color: Red}.String()}},
		{"game_over", m.GameOver, "%s", []interface{}{player}},
	}
	for _, c := range checks {
		if c.msg == "" {
			continue
		}
		if out := fmt.Sprintf(c.msg, c.args...); strings.Contains(out, "%!") {
			return fmt.Errorf("%w: messages.%s must use exactly the verbs %s, got %q", ErrInvalidConfig, c.key, c.verbs, c.msg)
		}
	}
	return nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filepath.Base(filename), err)
	}
	return config, nil
}

// ParseGameConfig decodes a config; ext selects YAML (".yaml", ".yml") or JSON.
// Missing track and message fields are filled with defaults.
func ParseGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	config.ApplyDefaults()
	return &config, nil
}

// playerSeats turns the player list into players in turn order.
func playerSeats(config *GameConfig) ([]*Player, error) {
	players := make([]*Player, 0, len(config.Players))
	for _, pc := range config.Players {
		c, err := ParseColor(pc.Color)
		if err != nil {
			return nil, err
		}
		players = append(players, newPlayer(c, pc.Name, pc.AI))
	}
	return players, nil
}
