// Package password implements one-way password hashing with argon2id in
// PHC string format. Hashing is deliberately expensive; callers must treat
// Hash and Verify as blocking CPU-bound operations and never hold locks
// across them.
package password
