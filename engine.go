package identity

import (
	"context"
	"errors"

	"github.com/nmalhotra/identity/jwt"
	"github.com/nmalhotra/identity/password"
	"github.com/nmalhotra/identity/refresh"
)

// Engine orchestrates the signup, login, OAuth-callback, verify, and refresh
// flows. Construct through [Builder.Build]; the zero value is not usable.
type Engine struct {
	config  Config
	store   AccountStore
	refresh *refresh.Store
	tokens  *jwt.Manager
	hasher  *password.Argon2
	audit   *auditDispatcher
	metrics *Metrics
}

// Close drains and stops the audit dispatcher. The Engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the flow counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.store != nil && e.refresh != nil && e.tokens != nil && e.hasher != nil
}

// issueSession mints an access/refresh pair for accountID and records the
// refresh token in Redis with TTL equal to its lifetime. The write is the
// last step; if it fails the whole issuance fails.
func (e *Engine) issueSession(ctx context.Context, accountID string) (*Session, error) {
	access, err := e.tokens.CreateAccess(accountID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	refreshToken, err := e.tokens.CreateRefresh(accountID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}

	if err := e.refresh.Set(ctx, accountID, refreshToken, e.config.JWT.RefreshTTL); err != nil {
		e.metricInc(MetricStoreError)
		return nil, ErrStoreUnavailable
	}

	return &Session{
		AccountID:    accountID,
		AccessToken:  access,
		RefreshToken: refreshToken,
	}, nil
}

// storeFailure maps any unexpected AccountStore error to the public
// sentinel. Contract sentinels pass through unchanged.
func storeFailure(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrDuplicateKey):
		return err
	default:
		return ErrStoreUnavailable
	}
}
