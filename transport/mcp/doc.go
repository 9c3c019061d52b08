// Package mcp exposes the Ludo game service over the Model Context Protocol.
//
// The server speaks MCP over stdio and registers one tool per game
// operation:
//   - create_session, list_sessions: start and list games
//   - game_state: players, pieces and whose turn it is
//   - roll_dice: roll (or feed a chosen value) for the current player
//   - move_piece: play the oldest unplayed roll with a chosen piece
//   - auto_play: let the heuristic AI play the computer seats
//   - reset_game, drain_events: housekeeping
//   - list_configs, game_instructions: reference
//
// Tool failures are reported as error results rather than protocol errors,
// so an agent sees the message and can correct its next call. An illegal
// move request is not a failure at all: the result explains why the piece
// cannot move and lists the pieces that can.
//
// Usage:
//
//	srv := mcp.NewServer(gameService, logger)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
