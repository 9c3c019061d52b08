// Package engine provides the rules engine and turn state machine for
// four-player Ludo.
//
// The engine package implements the game mechanics including:
//   - A per-color path model over a shared ring and private home stretches
//   - Move legality, move resolution, captures and finish entry
//   - Dice sequencing with six chains, three-six forfeits and finish bonus rolls
//   - Presentation events and a board geometry collaborator
//   - Configuration loading and validation (JSON or YAML)
//
// Core Types:
//
// PathModel maps a color's path index to a Cell. RulesEngine owns every
// Piece and is the only component that mutates one. TurnController decides
// whose turn it is and which roll the next move consumes. GameEngine wraps
// them behind a lock so that one input resolves completely before the next
// is accepted.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, _ := gameEngine.Roll()
//	if len(outcome.Movable) > 0 {
//		gameEngine.Move(outcome.Movable[0])
//	}
//	for _, ev := range gameEngine.Drain() {
//		fmt.Println(ev.Message)
//	}
//
// Game Rules:
//
// A piece leaves the yard on a six and lands on its color's entry square.
// It then walks the shared ring once and turns into its private stretch.
// Reaching the end of the path exactly puts it in the finish, and overshooting
// is illegal. Landing on an opponent outside a safe square sends that piece
// back to its yard. A six earns another roll, the third six in a row forfeits
// the turn, and rolls are spent in the order they were thrown. Entering the
// finish grants one bonus roll ahead of any rolls still waiting. The first
// player with all four pieces in the finish wins.
package engine
