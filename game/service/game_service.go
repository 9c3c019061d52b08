package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/logging"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Roll(ctx context.Context, sessionID string) (*RollResult, error)
	RollValue(ctx context.Context, sessionID string, value int) (*RollResult, error)
	Move(ctx context.Context, sessionID string, piece int) (*MoveResult, error)
	AutoPlay(ctx context.Context, sessionID string, opts AutoPlayOptions) (*AutoPlayResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	DrainEvents(ctx context.Context, sessionID string) ([]engine.Event, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session.
// The embedded mutex serializes multi-step operations such as auto-play.
type Session struct {
	sync.Mutex

	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	GameLog        *logging.GameLog
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Close releases resources held by the session.
func (s *Session) Close() error {
	if s.GameLog != nil {
		return s.GameLog.Close()
	}
	return nil
}
