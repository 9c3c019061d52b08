package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/game/render"
	"github.com/wricardo/mcp-training/ludo/game/service"
)

// Server exposes a GameService as MCP tools
type Server struct {
	service   service.GameService
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by the game service
func NewServer(svc service.GameService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: svc,
		logger:  logger,
	}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Ludo",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Ludo - MCP Interface

Four colors race four pieces each around a shared track and up a private home stretch.

AVAILABLE TOOLS:
- create_session: Start a new game from a configuration
- list_sessions: List active games
- game_state: Show players, pieces and whose turn it is
- roll_dice: Roll for the current player (or feed a chosen value)
- move_piece: Move one of the current player's pieces by the oldest unplayed roll
- auto_play: Let the computer play its seats until a human is to act
- reset_game: Put every piece back in its yard
- drain_events: Fetch the event log not yet shown
- list_configs: List available configurations
- game_instructions: Full rules

NOTE: move_piece takes an 'intent' parameter. Use it to explain why you chose that piece.`),
	)

	s.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional, defaults to classic)",
				},
			},
		},
	}, s.handleCreateSession)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for the current player. A six rolls again; three sixes in a row lose the turn.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"value": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     6,
					"description": "Use this value instead of rolling (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleRoll)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_piece",
		Description: "Move one of the current player's pieces by the oldest unplayed roll",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"piece": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     engine.PiecesPerPlayer - 1,
					"description": "Piece index (0-3)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this piece was chosen",
				},
			},
			Required: []string{"session_id", "piece"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_play",
		Description: "Let the heuristic AI play turns until a human player is to act or the game ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"max_turns": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Maximum turns to play (default %d)", service.DefaultAutoPlayTurns),
				},
				"all_players": map[string]interface{}{
					"type":        "boolean",
					"description": "Also play human seats",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleAutoPlay)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, s.handleReset)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "drain_events",
		Description: "Return game events that have not been reported yet",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, s.handleDrainEvents)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListConfigs)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over stdin and stdout until the input closes
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a number, got %q", key, v)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
}

func requireSession(args map[string]interface{}) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)

	info, err := s.service.CreateSession(ctx, configName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", info.ID, info.ConfigName, render.State(info.GameState))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.service.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		status := fmt.Sprintf("%s to act", sess.GameState.Turn.Player)
		if sess.GameState.GameOver {
			status = "won by " + sess.GameState.Winner
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			sess.ID, sess.ConfigName, sess.CreatedAt.Format("15:04:05"), status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.service.GetGameState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.State(state)), nil
}

func (s *Server) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, fixed, err := intArg(args, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result *service.RollResult
	if fixed {
		result, err = s.service.RollValue(ctx, sessionID, value)
	} else {
		result, err = s.service.Roll(ctx, sessionID)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRollResult(result)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	piece, ok, err := intArg(args, "piece")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("piece is required"), nil
	}
	if intent, _ := args["intent"].(string); intent != "" {
		s.logger.Debug("move intent", zap.String("session", sessionID), zap.Int("piece", piece), zap.String("intent", intent))
	}

	result, err := s.service.Move(ctx, sessionID, piece)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(result)), nil
}

func (s *Server) handleAutoPlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, err := requireSession(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxTurns, _, err := intArg(args, "max_turns")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	allPlayers, _ := args["all_players"].(bool)

	result, err := s.service.AutoPlay(ctx, sessionID, service.AutoPlayOptions{MaxTurns: maxTurns, AllPlayers: allPlayers})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatAutoPlayResult(result)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.service.Reset(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game reset\n\n" + render.State(state)), nil
}

func (s *Server) handleDrainEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := requireSession(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := s.service.DrainEvents(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No new events"), nil
	}
	return mcp.NewToolResultText(render.Events(events)), nil
}

func (s *Server) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configs, err := s.service.ListConfigs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Players: %d (%d AI)", config.ConfigID, config.Name, config.Description, config.Players, config.AIPlayers)
		if config.CaptureGrantsBonus {
			b.WriteString(", captures earn a bonus roll")
		}
		b.WriteString("\n\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}
