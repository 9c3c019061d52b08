// Package logging configures structured logging for the game server and CLI.
//
// New builds a zap logger that writes a console encoding to stderr, keeping
// stdout free for the MCP stdio protocol, and optionally tees into a
// size-rotated file managed by lumberjack. GameLog records one game's rolls,
// moves, captures and turn changes to its own rotated file by listening to
// engine presentation events.
package logging
