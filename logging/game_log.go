package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wricardo/mcp-training/ludo/game/engine"
)

// GameLog writes one game's history.
// It implements engine.Listener so it can be attached to an engine directly.
type GameLog struct {
	logger *zap.SugaredLogger
	closer io.Closer
}

var _ engine.Listener = (*GameLog)(nil)

// NewGameLog records game history through an existing logger at debug level.
func NewGameLog(logger *zap.Logger, gameID string) *GameLog {
	return &GameLog{logger: logger.With(zap.String("game", gameID)).Sugar()}
}

// NewFileGameLog records game history into its own rotated file
func NewFileGameLog(filename string) *GameLog {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeLevel = nil
	encoderCfg.EncodeTime = timeEncoder
	encoderCfg.ConsoleSeparator = " "

	writer := newRotatingWriter(filename)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(writer), zapcore.DebugLevel)
	return &GameLog{
		logger: zap.New(core).Sugar(),
		closer: writer,
	}
}

// Close flushes the log and releases its file.
func (l *GameLog) Close() error {
	_ = l.logger.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *GameLog) write(msg string, args ...interface{}) {
	l.logger.Debugf(msg, args...)
}

// Begin records the seating at the start of a game.
func (l *GameLog) Begin(config *engine.GameConfig) {
	seats := make([]string, 0, len(config.Players))
	for _, p := range config.Players {
		kind := "human"
		if p.AI {
			kind = "ai"
		}
		seats = append(seats, fmt.Sprintf("%s(%s,%s)", p.Name, p.Color, kind))
	}
	l.write("[game start] config=%s seats=%s", config.Name, strings.Join(seats, " "))
}

// Roll records a roll and what it did to the turn.
func (l *GameLog) Roll(out engine.RollOutcome) {
	l.write("[roll] player=%s value=%d again=%t forfeited=%t skipped=%v movable=%v",
		out.Player, out.Value, out.RollAgain, out.Forfeited, out.Skipped, out.Movable)
}

func (l *GameLog) OnPieceMoved(piece engine.PieceRef, from, to engine.Position) {
	l.write("[move] piece=%s from=(%.1f,%.1f) to=(%.1f,%.1f)", piece, from.X, from.Y, to.X, to.Y)
}

func (l *GameLog) OnPieceCaptured(piece engine.PieceRef) {
	l.write("[capture] piece=%s back to yard", piece)
}

func (l *GameLog) OnTurnChanged(player engine.Color) {
	l.write("[turn] next=%s", player)
}

func (l *GameLog) OnBonusRoll(reason engine.BonusReason) {
	l.write("[bonus] reason=%s", reason)
}

func (l *GameLog) OnGameOver(winner engine.Color) {
	l.write("[game over] winner=%s", winner)
}
