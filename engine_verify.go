package identity

import (
	"context"
	"errors"

	"github.com/nmalhotra/identity/jwt"
)

// Verify checks a bearer access token's signature and expiry without any
// store round-trip; tokens are bearer credentials and revocation is enforced
// only through refresh-token TTL. An expired token is reported distinctly so
// clients know to refresh instead of re-authenticating.
func (e *Engine) Verify(ctx context.Context, token string) (*TokenInfo, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			e.metricInc(MetricVerifyExpired)
			e.emitAudit(ctx, auditEventVerifyFailure, false, "", ErrTokenExpired, nil)
			return nil, ErrTokenExpired
		}
		e.metricInc(MetricVerifyInvalid)
		e.emitAudit(ctx, auditEventVerifyFailure, false, "", ErrTokenInvalid, nil)
		return nil, ErrTokenInvalid
	}

	// Only access tokens may gate account-scoped operations.
	if claims.Type != string(jwt.TypeAccess) {
		e.metricInc(MetricVerifyInvalid)
		e.emitAudit(ctx, auditEventVerifyFailure, false, claims.AccountID, ErrTokenInvalid, func() map[string]string {
			return map[string]string{"reason": "wrong_token_type"}
		})
		return nil, ErrTokenInvalid
	}

	e.metricInc(MetricVerifySuccess)
	return &TokenInfo{AccountID: claims.AccountID}, nil
}

// GetProfile fetches the account behind a verified token. The password hash
// never leaves the Engine.
func (e *Engine) GetProfile(ctx context.Context, accountID string) (*Account, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	account, err := e.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		e.metricInc(MetricStoreError)
		return nil, ErrStoreUnavailable
	}

	out := *account
	out.PasswordHash = ""
	return &out, nil
}
