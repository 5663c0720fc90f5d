package identity

import "context"

// Account is the canonical identity record. Every account carries at least
// one credential: a password hash, an OAuth subject, or both.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // empty for OAuth-only accounts; never exposed by GetProfile
	OAuthID      string // provider-scoped subject id; empty until linked
}

// Profile is a verified OAuth profile assertion. Authentication with the
// provider is the boundary layer's responsibility; the Engine trusts the
// assertion as given.
type Profile struct {
	SubjectID string
	Email     string
	Name      string
}

// Session is the value produced by every successful issuance. It is not
// persisted as an entity; only the refresh token is mirrored into Redis.
type Session struct {
	AccountID    string
	AccessToken  string
	RefreshToken string
}

// TokenInfo is the result of verifying a bearer access token.
type TokenInfo struct {
	AccountID string
}

// CreateAccountInput carries the fields for AccountStore.Create. ID is
// generated by the Engine; either PasswordHash or OAuthID is non-empty.
type CreateAccountInput struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	OAuthID      string
}

// AccountStore is the port to the durable account repository. Implementations
// hold no business logic; they map missing rows to ErrAccountNotFound, unique
// violations to ErrDuplicateKey, and transport failures to errors wrapping
// ErrStoreUnavailable. All methods honor ctx cancellation.
//
// UpdateOAuthID attaches a provider subject to an account that does not have
// one yet. If the account is already linked, implementations return
// ErrDuplicateKey so the Engine re-resolves instead of overwriting.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByOAuthID(ctx context.Context, oauthID string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*Account, error)
	UpdateOAuthID(ctx context.Context, id, oauthID string) (*Account, error)
}
