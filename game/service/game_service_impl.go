package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/ludo/game/ai"
	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/logging"
)

// ErrConfigNotFound is returned when a requested configuration does not exist
var ErrConfigNotFound = errors.New("configuration not found")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex

	logger     *zap.Logger
	gameLogDir string
	newDice    func() engine.Dice
	player     *ai.HeuristicAI
}

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithLogger sets the service logger. Game history is written through it
// at debug level unless WithGameLogDir is also given.
func WithLogger(logger *zap.Logger) Option {
	return func(s *gameServiceImpl) { s.logger = logger }
}

// WithGameLogDir writes each session's history to its own file in dir.
func WithGameLogDir(dir string) Option {
	return func(s *gameServiceImpl) { s.gameLogDir = dir }
}

// WithDiceFactory sets the dice given to each new session.
func WithDiceFactory(f func() engine.Dice) Option {
	return func(s *gameServiceImpl) { s.newDice = f }
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "classic"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   zap.NewNop(),
		player:   ai.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use list_configs to see available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	var engineOpts []engine.Option
	if s.newDice != nil {
		engineOpts = append(engineOpts, engine.WithDice(s.newDice()))
	}

	session, err := s.sessions.Create("", config, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.GameLog = s.newGameLog(session.ID)
	session.Engine.Subscribe(session.GameLog)
	session.GameLog.Begin(config)

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.logger.Info("session created",
		zap.String("session", session.ID),
		zap.String("config", configID),
		zap.Int("players", len(config.Players)))

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

func (s *gameServiceImpl) newGameLog(sessionID string) *logging.GameLog {
	if s.gameLogDir != "" {
		return logging.NewFileGameLog(filepath.Join(s.gameLogDir, sessionID+".log"))
	}
	return logging.NewGameLog(s.logger, sessionID)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	_ = s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	if err := sess.Close(); err != nil {
		s.logger.Warn("closing game log", zap.String("session", sessionID), zap.Error(err))
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// session looks a session up and marks it accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// Roll draws a value from the session's dice for the current player
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*RollResult, error) {
	return s.roll(sessionID, func(e *engine.GameEngine) (engine.RollOutcome, error) {
		return e.Roll()
	})
}

// RollValue feeds a caller-supplied die value to the session
func (s *gameServiceImpl) RollValue(ctx context.Context, sessionID string, value int) (*RollResult, error) {
	return s.roll(sessionID, func(e *engine.GameEngine) (engine.RollOutcome, error) {
		return e.RollValue(value)
	})
}

func (s *gameServiceImpl) roll(sessionID string, roll func(*engine.GameEngine) (engine.RollOutcome, error)) (*RollResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	out, err := roll(sess.Engine)
	if err != nil {
		return nil, err
	}
	if sess.GameLog != nil {
		sess.GameLog.Roll(out)
	}

	_, previews := sess.Engine.Previews()
	state := sess.Engine.GetState()

	s.logger.Debug("roll",
		zap.String("session", sessionID),
		zap.Stringer("player", out.Player),
		zap.Int("value", out.Value),
		zap.Bool("forfeited", out.Forfeited))

	return &RollResult{
		Outcome:   out,
		Previews:  previews,
		GameState: state,
		Message:   state.Message,
		Events:    sess.Engine.Drain(),
	}, nil
}

// Move moves one of the current player's pieces by the oldest pending roll
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, piece int) (*MoveResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	res, ok, err := sess.Engine.Move(piece)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:   ok,
		GameState: state,
		Message:   state.Message,
		Events:    sess.Engine.Drain(),
	}
	if !ok {
		steps, previews := sess.Engine.Previews()
		result.Movable = sess.Engine.MovablePieces()
		result.Previews = previews
		result.Message = fmt.Sprintf("piece %d cannot move %d; movable pieces: %v", piece, steps, result.Movable)
		return result, nil
	}

	result.Move = &res
	if state.Turn.Phase == engine.PhaseAwaitingMove {
		_, result.Previews = sess.Engine.Previews()
	}

	s.logger.Debug("move",
		zap.String("session", sessionID),
		zap.Stringer("piece", res.Piece),
		zap.Int("steps", res.Steps),
		zap.Int("captured", len(res.Captured)))

	return result, nil
}

// AutoPlay lets the heuristic AI play turns until a human is to act, the
// game ends or the turn cap is reached.
func (s *gameServiceImpl) AutoPlay(ctx context.Context, sessionID string, opts AutoPlayOptions) (*AutoPlayResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultAutoPlayTurns
	}

	result := &AutoPlayResult{Turns: []*ai.TurnSummary{}}
	for {
		switch {
		case sess.Engine.IsGameOver():
			result.StopReasonCode = "game_over"
			result.StoppedReason = "game is over"
		case ctx.Err() != nil:
			result.StopReasonCode = "cancelled"
			result.StoppedReason = ctx.Err().Error()
		case result.TurnsPlayed >= maxTurns:
			result.StopReasonCode = "max_turns"
			result.StoppedReason = fmt.Sprintf("reached %d turns", maxTurns)
		case !opts.AllPlayers && !sess.Engine.CurrentPlayerIsAI():
			result.StopReasonCode = "human_turn"
			result.StoppedReason = fmt.Sprintf("waiting for %s", sess.Engine.CurrentPlayer())
		}
		if result.StopReasonCode != "" {
			break
		}

		summary, err := s.player.PlayTurn(sess.Engine)
		if summary != nil && sess.GameLog != nil {
			for _, out := range summary.Outcomes {
				sess.GameLog.Roll(out)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("auto-play session %s: %w", sessionID, err)
		}
		result.Turns = append(result.Turns, summary)
		result.TurnsPlayed++
	}

	result.GameState = sess.Engine.GetState()
	result.Events = sess.Engine.Drain()

	s.logger.Debug("auto-play",
		zap.String("session", sessionID),
		zap.Int("turns", result.TurnsPlayed),
		zap.String("stopped", result.StopReasonCode))

	return result, nil
}

// Reset puts a session's game back to its opening position
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	state := sess.Engine.Reset()
	if sess.GameLog != nil {
		sess.GameLog.Begin(sess.Config)
	}
	s.logger.Info("session reset", zap.String("session", sessionID))
	return state, nil
}

// GetGameState returns the current game state for a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// DrainEvents returns presentation events not yet handed out
func (s *gameServiceImpl) DrainEvents(ctx context.Context, sessionID string) ([]engine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Drain(), nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
