// Package ai provides the move-selection policy for automated players.
//
// HeuristicAI ranks the legal moves for a roll with a fixed priority list:
// capture, finish, bring a piece out on a six, push the most advanced piece,
// avoid safe destinations, then fall back to the lowest piece index. It only
// reads RulesEngine previews and never writes piece state.
package ai
