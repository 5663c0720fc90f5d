package identity

import "errors"

// Flow-level sentinels. Engine methods return exactly these (or a
// ValidationErrors value); callers match with errors.Is.
var (
	// ErrInvalidCredentials covers unknown email, wrong password, and
	// password login against an OAuth-only account. The three cases are
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned by Signup when the email already has an
	// account, whether detected by the pre-check or by the store's unique
	// constraint during the create race.
	ErrEmailTaken = errors.New("email already registered")
	// ErrIdentityConflict is returned when an OAuth assertion's email
	// belongs to an account already linked to a different provider subject.
	// The linkage is never overwritten.
	ErrIdentityConflict = errors.New("identity conflict")
	// ErrTokenExpired signals that a token's signature is valid but its
	// expiry has passed; clients should refresh rather than re-authenticate.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other token failure: bad signature,
	// malformed encoding, wrong token type, or a refresh token that no
	// longer matches the stored entry.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrStoreUnavailable is returned when either store (or the hasher's
	// entropy source) fails or times out. It is never retried by the Engine.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAccountNotFound is returned by profile lookup on a vanished
	// account, and by AccountStore implementations for missing rows.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEngineNotReady is returned when an Engine is used before Build
	// wired its dependencies.
	ErrEngineNotReady = errors.New("engine not ready")
)

// ErrDuplicateKey is the AccountStore contract sentinel for a unique
// constraint violation (email or oauth_id). The Engine translates it per
// flow: ErrEmailTaken on signup, a single resolution retry on OAuth linking.
var ErrDuplicateKey = errors.New("duplicate key")
