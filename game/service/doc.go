// Package service provides the business logic layer for the Ludo engine.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration loading
//   - Roll and move processing
//   - AI auto-play for computer seats
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (terminal, MCP) and the game
// engine. Each session owns its own engine instance and game log. Operations on
// one session are serialized by the session lock, so an auto-play run cannot
// interleave with a manual roll.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithLogger(logger))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roll, err := gameService.Roll(ctx, info.ID)
//	move, err := gameService.Move(ctx, info.ID, roll.Previews[0].Piece.Index)
package service
