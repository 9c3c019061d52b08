package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/ludo/game/config"
	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/game/service"
	"github.com/wricardo/mcp-training/ludo/game/session"
)

func newTestServer(t *testing.T, rolls ...int) *Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	require.NoError(t, err)

	var opts []service.Option
	if len(rolls) > 0 {
		opts = append(opts, service.WithDiceFactory(func() engine.Dice { return engine.NewScriptedDice(rolls...) }))
	}
	return NewServer(service.NewGameService(session.NewManager(), configs, opts...), nil)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	text, isErr := callTool(t, s.handleCreateSession, "create_session", map[string]any{})
	require.False(t, isErr, text)

	line := strings.SplitN(text, "\n", 2)[0]
	id := strings.TrimPrefix(line, "Created session: ")
	require.NotEmpty(t, id)
	return id
}

func TestServer_ToolsRegistered(t *testing.T) {
	s := newTestServer(t)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp := s.GetMCPServer().HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{
		"create_session", "list_sessions", "game_state", "roll_dice", "move_piece",
		"auto_play", "reset_game", "drain_events", "list_configs", "game_instructions",
	} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}

func TestServer_CreateAndListSessions(t *testing.T) {
	s := newTestServer(t)

	id := createSession(t, s)

	text, isErr := callTool(t, s.handleListSessions, "list_sessions", nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "Active Sessions (1)")
	assert.Contains(t, text, id)
	assert.Contains(t, text, "yellow to act")

	text, isErr = callTool(t, s.handleCreateSession, "create_session", map[string]any{"config_name": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")
}

func TestServer_RollAndMove(t *testing.T) {
	s := newTestServer(t, 6, 3)
	id := createSession(t, s)

	text, isErr := callTool(t, s.handleRoll, "roll_dice", map[string]any{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "yellow rolled 6")
	assert.Contains(t, text, "Roll again")

	text, isErr = callTool(t, s.handleRoll, "roll_dice", map[string]any{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Moves for 6:")
	assert.Contains(t, text, "piece 0: yard -> t0 (safe)")

	text, isErr = callTool(t, s.handleMove, "move_piece", map[string]any{
		"session_id": id,
		"piece":      float64(0),
		"intent":     "bring a piece out",
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "yellow#0 moved 6: #0:yard -> #0:t0")
	assert.Contains(t, text, "Moves for 3:")

	text, isErr = callTool(t, s.handleMove, "move_piece", map[string]any{"session_id": id, "piece": "2"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Move rejected: piece 2 cannot move 3")

	text, isErr = callTool(t, s.handleMove, "move_piece", map[string]any{"session_id": id, "piece": 0})
	require.False(t, isErr, text)
	assert.Contains(t, text, "#0:t0 -> #0:t3")
	assert.Contains(t, text, "turn passes to red")
}

func TestServer_RollValue(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	text, isErr := callTool(t, s.handleRoll, "roll_dice", map[string]any{"session_id": id, "value": float64(4)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "yellow rolled 4")
	assert.Contains(t, text, "Skipped (no legal move): [4]")

	text, isErr = callTool(t, s.handleRoll, "roll_dice", map[string]any{"session_id": id, "value": float64(9)})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid roll value")

	text, isErr = callTool(t, s.handleRoll, "roll_dice", map[string]any{"session_id": id, "value": 2.5})
	assert.True(t, isErr)
	assert.Contains(t, text, "whole number")
}

func TestServer_ArgumentErrors(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    string
	}{
		{"missing session", s.handleGameState, map[string]any{}, "session_id is required"},
		{"unknown session", s.handleGameState, map[string]any{"session_id": "zzzz"}, "session not found"},
		{"missing piece", s.handleMove, map[string]any{"session_id": id}, "piece is required"},
		{"bad piece", s.handleMove, map[string]any{"session_id": id, "piece": "one"}, "piece must be a number"},
		{"move before roll", s.handleMove, map[string]any{"session_id": id, "piece": 0}, "cannot move while awaiting_roll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, tt.handler, tt.name, tt.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestServer_AutoPlayAndEvents(t *testing.T) {
	s := newTestServer(t, 6, 3)
	id := createSession(t, s)

	_, isErr := callTool(t, s.handleRoll, "roll_dice", map[string]any{"session_id": id, "value": 1})
	require.False(t, isErr)

	text, isErr := callTool(t, s.handleAutoPlay, "auto_play", map[string]any{"session_id": id})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Played 3 turns")
	assert.Contains(t, text, "human_turn")
	assert.Contains(t, text, "red rolled [6 3]")

	text, isErr = callTool(t, s.handleDrainEvents, "drain_events", map[string]any{"session_id": id})
	require.False(t, isErr)
	assert.Equal(t, "No new events", text)

	text, isErr = callTool(t, s.handleReset, "reset_game", map[string]any{"session_id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "Game reset")
	assert.Contains(t, text, "Turn: yellow (awaiting_roll)")
}

func TestServer_ConfigsAndInstructions(t *testing.T) {
	s := newTestServer(t)

	text, isErr := callTool(t, s.handleListConfigs, "list_configs", nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "Available Configurations")

	text, isErr = callTool(t, s.handleGameInstructions, "game_instructions", nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "Three sixes in a row lose the whole turn")
}
