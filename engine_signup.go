package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Signup registers a password account and issues its first session. The
// email existence pre-check is advisory only; the store's unique constraint
// is the authority, so a create race surfaces as ErrEmailTaken rather than
// a duplicate account.
func (e *Engine) Signup(ctx context.Context, input SignupInput) (*Session, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if err := ValidateSignup(input); err != nil {
		e.emitAudit(ctx, auditEventSignupFailure, false, "", err, func() map[string]string {
			return map[string]string{"email": input.Email, "reason": "validation"}
		})
		return nil, err
	}

	if _, err := e.store.FindByEmail(ctx, input.Email); err == nil {
		e.metricInc(MetricSignupDuplicate)
		e.emitAudit(ctx, auditEventSignupFailure, false, "", ErrEmailTaken, func() map[string]string {
			return map[string]string{"email": input.Email, "reason": "duplicate_email"}
		})
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		e.metricInc(MetricStoreError)
		return nil, ErrStoreUnavailable
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		e.metricInc(MetricSignupFailure)
		e.emitAudit(ctx, auditEventSignupFailure, false, "", err, func() map[string]string {
			return map[string]string{"email": input.Email, "reason": "hash_failure"}
		})
		return nil, ErrStoreUnavailable
	}

	account, err := e.store.Create(ctx, CreateAccountInput{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			e.metricInc(MetricSignupDuplicate)
			e.emitAudit(ctx, auditEventSignupFailure, false, "", ErrEmailTaken, func() map[string]string {
				return map[string]string{"email": input.Email, "reason": "duplicate_on_create"}
			})
			return nil, ErrEmailTaken
		}
		e.metricInc(MetricStoreError)
		return nil, ErrStoreUnavailable
	}

	session, err := e.issueSession(ctx, account.ID)
	if err != nil {
		e.metricInc(MetricSignupFailure)
		e.emitAudit(ctx, auditEventSignupFailure, false, account.ID, err, nil)
		return nil, err
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, account.ID, nil, func() map[string]string {
		return map[string]string{"email": account.Email}
	})
	return session, nil
}
