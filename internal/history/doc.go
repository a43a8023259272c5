// Package history journals synchronization runs in a local SQLite database.
//
// The journal is optional and records outcomes only: which documents a run
// touched, with what delay model, and whether each succeeded. Document
// content is never stored.
package history
