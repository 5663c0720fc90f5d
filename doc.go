// Package identity implements identity resolution and session issuance: it
// maps a credential (an email/password pair or a verified OAuth profile
// assertion) to a canonical account, mints signed access/refresh token pairs,
// and tracks the active refresh token per account in Redis.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// identity is the public surface. It exposes [Engine], [Builder], [Config],
// the [AccountStore] port, and value types (Account, Session, Profile).
// Signing, hashing, and the two store gateways live in the jwt, password,
// refresh, and postgres subpackages.
//
// # What this package must NOT do
//
//   - Expose Redis clients, pgx pools, or token encoding details in its
//     public API.
//   - Perform HTTP routing or request-body decoding; that belongs to the
//     boundary layer (see cmd/identityd).
//   - Let raw store or crypto errors cross the Engine boundary; every
//     failure maps to a sentinel in errors.go.
//
// # Consistency contract
//
// A flow either returns a complete Session (both tokens minted and the
// refresh token recorded in Redis) or an error. There is no partial success
// and no rollback: a refresh-store write failure after minting is reported
// as ErrStoreUnavailable and the minted tokens are discarded by the caller.
package identity
