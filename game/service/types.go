package service

import (
	"time"

	"github.com/wricardo/mcp-training/ludo/game/ai"
	"github.com/wricardo/mcp-training/ludo/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// RollResult contains the result of a roll
type RollResult struct {
	Outcome   engine.RollOutcome   `json:"outcome"`
	Previews  []engine.MovePreview `json:"previews,omitempty"`
	GameState *engine.GameState    `json:"game_state"`
	Message   string               `json:"message"`
	Events    []engine.Event       `json:"events,omitempty"`
}

// MoveResult contains the result of a move operation.
// An illegal request is reported with Success false, not as an error.
type MoveResult struct {
	Success   bool                 `json:"success"`
	Move      *engine.MoveResult   `json:"move,omitempty"`
	Movable   []int                `json:"movable,omitempty"`
	GameState *engine.GameState    `json:"game_state"`
	Message   string               `json:"message"`
	Events    []engine.Event       `json:"events,omitempty"`
	Previews  []engine.MovePreview `json:"previews,omitempty"`
}

// AutoPlayOptions bounds an auto-play call
type AutoPlayOptions struct {
	// MaxTurns caps the number of turns played; zero means DefaultAutoPlayTurns.
	MaxTurns int `json:"max_turns"`
	// AllPlayers plays human seats too instead of stopping at the first one.
	AllPlayers bool `json:"all_players"`
}

// DefaultAutoPlayTurns is the turn cap used when AutoPlayOptions.MaxTurns is zero.
const DefaultAutoPlayTurns = 100

// AutoPlayResult contains the turns played automatically
type AutoPlayResult struct {
	Turns          []*ai.TurnSummary `json:"turns"`
	TurnsPlayed    int               `json:"turns_played"`
	StoppedReason  string            `json:"stopped_reason"`
	StopReasonCode string            `json:"stop_reason_code"` // human_turn|game_over|max_turns|cancelled
	GameState      *engine.GameState `json:"game_state"`
	Events         []engine.Event    `json:"events,omitempty"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename           string `json:"filename"`
	ConfigID           string `json:"config_id"` // The identifier to use for session creation
	Name               string `json:"name"`      // Display name
	Description        string `json:"description"`
	Players            int    `json:"players"`
	AIPlayers          int    `json:"ai_players"`
	CaptureGrantsBonus bool   `json:"capture_grants_bonus"`
}

// NewConfigInfo summarizes a configuration for listings.
func NewConfigInfo(filename, configID string, config *engine.GameConfig) *ConfigInfo {
	info := &ConfigInfo{
		Filename:           filename,
		ConfigID:           configID,
		Name:               config.Name,
		Description:        config.Description,
		Players:            len(config.Players),
		CaptureGrantsBonus: config.Rules.CaptureGrantsBonus,
	}
	for _, p := range config.Players {
		if p.AI {
			info.AIPlayers++
		}
	}
	return info
}
