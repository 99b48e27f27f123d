// Package password stores login credentials irreversibly.
//
// The primary strategy is Argon2id with configurable cost and an optional
// server-side pepper; a bcrypt strategy exists as a fallback for constrained
// runtimes. Verification recognizes both hash families by their encoded
// prefix, so records hashed under either strategy stay verifiable after a
// migration.
package password
