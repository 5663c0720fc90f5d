package identity

import (
	"context"
	"errors"
	"testing"
)

func TestOAuthLoginCreatesAccount(t *testing.T) {
	engine, store, mr, done := newTestEngine(t, testConfig())
	defer done()

	session, err := engine.OAuthLogin(context.Background(), Profile{
		SubjectID: "google-sub-1",
		Email:     "a@x.com",
		Name:      "Alice",
	})
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}

	account, err := store.FindByOAuthID(context.Background(), "google-sub-1")
	if err != nil {
		t.Fatalf("created account not found: %v", err)
	}
	if account.ID != session.AccountID {
		t.Fatal("session account does not match created account")
	}
	if account.PasswordHash != "" {
		t.Fatal("oauth-only account must not carry a password hash")
	}
	if got := storedRefreshToken(t, mr, session.AccountID); got != session.RefreshToken {
		t.Fatal("refresh store does not hold the issued token")
	}
}

func TestOAuthLoginLinksExistingPasswordAccount(t *testing.T) {
	engine, store, _, done := newTestEngine(t, testConfig())
	defer done()

	signup := mustSignup(t, engine, "Alice", "a@x.com", "secret1")

	session, err := engine.OAuthLogin(context.Background(), Profile{
		SubjectID: "google-sub-1",
		Email:     "a@x.com",
	})
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if session.AccountID != signup.AccountID {
		t.Fatal("oauth callback should resolve to the signup account")
	}

	account, err := store.FindByID(context.Background(), signup.AccountID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if account.PasswordHash == "" || account.OAuthID != "google-sub-1" {
		t.Fatalf("expected linked account with both credentials, got %+v", account)
	}
}

func TestOAuthLoginIdempotent(t *testing.T) {
	engine, store, _, done := newTestEngine(t, testConfig())
	defer done()

	profile := Profile{SubjectID: "google-sub-1", Email: "a@x.com", Name: "Alice"}

	first, err := engine.OAuthLogin(context.Background(), profile)
	if err != nil {
		t.Fatalf("first OAuthLogin failed: %v", err)
	}
	writesAfterFirst := store.writeCount()

	second, err := engine.OAuthLogin(context.Background(), profile)
	if err != nil {
		t.Fatalf("second OAuthLogin failed: %v", err)
	}

	if first.AccountID != second.AccountID {
		t.Fatalf("linker not idempotent: %s vs %s", first.AccountID, second.AccountID)
	}
	// Returning-user fast path must not touch the account store.
	if store.writeCount() != writesAfterFirst {
		t.Fatal("second resolution performed an account-store write")
	}
}

func TestOAuthLoginConflict(t *testing.T) {
	engine, store, _, done := newTestEngine(t, testConfig())
	defer done()

	store.insert(Account{ID: "acc-1", Email: "a@x.com", OAuthID: "google-sub-1"})

	_, err := engine.OAuthLogin(context.Background(), Profile{
		SubjectID: "google-sub-2",
		Email:     "a@x.com",
	})
	if !errors.Is(err, ErrIdentityConflict) {
		t.Fatalf("expected ErrIdentityConflict, got %v", err)
	}

	// The existing linkage must be untouched.
	account, err := store.FindByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if account.OAuthID != "google-sub-1" {
		t.Fatalf("linkage overwritten: %s", account.OAuthID)
	}
}

// A duplicate-key loss during create means a concurrent request created the
// account first; the second resolution pass must converge on that row.
func TestOAuthLoginCreateRaceConverges(t *testing.T) {
	engine, store, _, done := newTestEngine(t, testConfig())
	defer done()

	store.createHook = func() error {
		store.accounts["winner"] = &Account{ID: "winner", Email: "a@x.com", OAuthID: "google-sub-1"}
		return ErrDuplicateKey
	}

	session, err := engine.OAuthLogin(context.Background(), Profile{
		SubjectID: "google-sub-1",
		Email:     "a@x.com",
	})
	if err != nil {
		t.Fatalf("OAuthLogin failed after race: %v", err)
	}
	if session.AccountID != "winner" {
		t.Fatalf("expected resolution to converge on the winning row, got %s", session.AccountID)
	}
}

func TestOAuthLoginInvalidProfile(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	_, err := engine.OAuthLogin(context.Background(), Profile{SubjectID: "", Email: "a@x.com"})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}
