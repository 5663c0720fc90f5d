// Package refresh is the ephemeral refresh-token gateway: a thin, typed
// layer over Redis holding at most one token per account with a TTL equal
// to the token lifetime.
//
// # What this package must NOT do
//
//   - Parse, sign, or compare tokens; it stores opaque strings.
//   - Retry failed commands; retry policy belongs to the Redis client
//     configuration, not this gateway.
package refresh
