// Package identity holds the user model and its persistence boundary.
//
// Private identifiers (email, login id) never appear in plain form here:
// callers hash them with the private-identifier hasher before they reach
// this package, and only the hashes are stored and queried.
package identity
