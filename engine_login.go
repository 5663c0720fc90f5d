package identity

import (
	"context"
	"errors"
)

// Login authenticates an email/password pair and issues a fresh session.
// Unknown email, an OAuth-only account, and a wrong password all map to
// ErrInvalidCredentials so the response does not leak which one occurred.
func (e *Engine) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if err := ValidateLogin(input); err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, "", err, func() map[string]string {
			return map[string]string{"email": input.Email, "reason": "validation"}
		})
		return nil, err
	}

	account, err := e.store.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"email": input.Email, "reason": "unknown_email"}
			})
			return nil, ErrInvalidCredentials
		}
		e.metricInc(MetricStoreError)
		return nil, ErrStoreUnavailable
	}

	// OAuth-only accounts have no hash; password login is unavailable.
	if account.PasswordHash == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "no_password_hash"}
		})
		return nil, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(input.Password, account.PasswordHash)
	if err != nil || !ok {
		// A malformed stored hash fails closed, same as a wrong password.
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "password_mismatch"}
		})
		return nil, ErrInvalidCredentials
	}

	session, err := e.issueSession(ctx, account.ID)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, account.ID, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.ID, nil, nil)
	return session, nil
}
