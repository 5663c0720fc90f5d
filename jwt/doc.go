// Package jwt wraps golang-jwt/v5 behind a small manager producing the two
// token shapes the service issues: access (short-lived) and refresh
// (long-lived), both HS256-signed with the same symmetric secret and
// distinguished by the "typ" claim.
//
// # Architecture boundaries
//
// This package owns encoding, signing, and structural validation. Token
// type enforcement, the expiry-vs-invalid error taxonomy seen by API
// callers, and the refresh-store comparison all live in the identity
// package.
package jwt
