package identity

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/nmalhotra/identity/jwt"
	"github.com/nmalhotra/identity/refresh"
)

// Refresh rotates a session: the presented refresh token must both carry a
// valid signature and match the single active entry in the refresh store.
// A token displaced by a later login therefore fails here even though its
// signature is still valid. Successful rotation overwrites the stored entry,
// invalidating the presented token.
func (e *Engine) Refresh(ctx context.Context, token string) (*Session, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshFailure, false, "", ErrTokenExpired, nil)
			return nil, ErrTokenExpired
		}
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", ErrTokenInvalid, nil)
		return nil, ErrTokenInvalid
	}
	if claims.Type != string(jwt.TypeRefresh) {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, claims.AccountID, ErrTokenInvalid, func() map[string]string {
			return map[string]string{"reason": "wrong_token_type"}
		})
		return nil, ErrTokenInvalid
	}

	stored, err := e.refresh.Get(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, refresh.ErrNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshFailure, false, claims.AccountID, ErrTokenInvalid, func() map[string]string {
				return map[string]string{"reason": "no_active_token"}
			})
			return nil, ErrTokenInvalid
		}
		e.metricInc(MetricStoreError)
		return nil, ErrStoreUnavailable
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, claims.AccountID, ErrTokenInvalid, func() map[string]string {
			return map[string]string{"reason": "token_superseded"}
		})
		return nil, ErrTokenInvalid
	}

	session, err := e.issueSession(ctx, claims.AccountID)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, claims.AccountID, err, nil)
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, claims.AccountID, nil, nil)
	return session, nil
}
