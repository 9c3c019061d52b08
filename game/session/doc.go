// Package session provides in-memory session management for Ludo games.
//
// Manager stores service.Session values keyed by a case-insensitive ID.
// Each session owns its own engine, so games never share state. Generated
// IDs are the first eight hex characters of a random UUID.
//
// Usage:
//
//	manager := session.NewManager(session.WithLogger(logger))
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions that have not been touched for a while can be dropped with
// CleanupExpiredSessions, which also closes their game logs.
package session
