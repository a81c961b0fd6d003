// Package hash provides helpers for hashing and verifying secrets.
//
// Passwords and backup recovery codes are stored as irreversible hashes
// only; verification compares user input against the stored hash. Concrete
// implementations (bcrypt, argon2id) live behind a small interface.
package hash
