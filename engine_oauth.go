package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// OAuthLogin resolves a verified provider assertion to the canonical account
// and issues a session. The assertion is trusted as given; verifying it
// against the provider happens at the boundary before this call.
func (e *Engine) OAuthLogin(ctx context.Context, profile Profile) (*Session, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if err := validateProfile(profile); err != nil {
		e.emitAudit(ctx, auditEventOAuthFailure, false, "", err, func() map[string]string {
			return map[string]string{"email": profile.Email, "reason": "validation"}
		})
		return nil, err
	}

	account, linked, err := e.resolveIdentity(ctx, profile)
	if err != nil {
		switch {
		case errors.Is(err, ErrIdentityConflict):
			e.metricInc(MetricOAuthConflict)
			e.emitAudit(ctx, auditEventOAuthConflict, false, account.ID, err, func() map[string]string {
				return map[string]string{"email": profile.Email, "subject_id": profile.SubjectID}
			})
		default:
			e.metricInc(MetricStoreError)
			err = ErrStoreUnavailable
		}
		return nil, err
	}
	if linked {
		e.metricInc(MetricOAuthLinked)
		e.emitAudit(ctx, auditEventOAuthLinked, true, account.ID, nil, func() map[string]string {
			return map[string]string{"subject_id": profile.SubjectID}
		})
	}

	session, err := e.issueSession(ctx, account.ID)
	if err != nil {
		e.metricInc(MetricOAuthFailure)
		e.emitAudit(ctx, auditEventOAuthFailure, false, account.ID, err, nil)
		return nil, err
	}

	e.metricInc(MetricOAuthSuccess)
	e.emitAudit(ctx, auditEventOAuthSuccess, true, account.ID, nil, nil)
	return session, nil
}

// resolveIdentity finds, creates, or links the account for a profile. The
// returned bool reports whether a linking write happened. On a duplicate-key
// race the resolution runs once more; by then the store holds the winning
// row and the second pass converges on it. A non-nil account accompanies
// ErrIdentityConflict so callers can audit the colliding record.
func (e *Engine) resolveIdentity(ctx context.Context, profile Profile) (*Account, bool, error) {
	account, linked, err := e.lookupOrLink(ctx, profile)
	if errors.Is(err, ErrDuplicateKey) {
		account, linked, err = e.lookupOrLink(ctx, profile)
	}
	return account, linked, err
}

func (e *Engine) lookupOrLink(ctx context.Context, profile Profile) (*Account, bool, error) {
	// Fast path: returning OAuth user, no write.
	account, err := e.store.FindByOAuthID(ctx, profile.SubjectID)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, false, storeFailure(err)
	}

	account, err = e.store.FindByEmail(ctx, profile.Email)
	if errors.Is(err, ErrAccountNotFound) {
		// First sight of this identity: OAuth-only account, no hash.
		created, err := e.store.Create(ctx, CreateAccountInput{
			ID:      uuid.NewString(),
			Email:   profile.Email,
			Name:    profile.Name,
			OAuthID: profile.SubjectID,
		})
		if err != nil {
			return nil, false, storeFailure(err)
		}
		return created, false, nil
	}
	if err != nil {
		return nil, false, storeFailure(err)
	}

	if account.OAuthID == profile.SubjectID {
		return account, false, nil
	}
	if account.OAuthID != "" {
		// Same email, different provider subject. Never overwrite the
		// existing linkage; resolution policy belongs to the operator.
		return account, false, ErrIdentityConflict
	}

	updated, err := e.store.UpdateOAuthID(ctx, account.ID, profile.SubjectID)
	if err != nil {
		return nil, false, storeFailure(err)
	}
	return updated, true, nil
}
