package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// testConfig uses the argon2 cost floors so flow tests stay fast.
func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password = PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *mockAccountStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	store := newMockAccountStore()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountStore(store).
		Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return engine, store, mr, func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

// mockAccountStore is an in-memory AccountStore enforcing the same
// uniqueness contract as the postgres adapter.
type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*Account

	failWith   error        // when set, every call fails with it
	createHook func() error // runs inside Create before the insert
	writes     int
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: map[string]*Account{}}
}

func (m *mockAccountStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockAccountStore) FindByOAuthID(_ context.Context, oauthID string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.accounts {
		if a.OAuthID != "" && a.OAuthID == oauthID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (m *mockAccountStore) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrAccountNotFound
}

func (m *mockAccountStore) Create(_ context.Context, input CreateAccountInput) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.createHook != nil {
		hook := m.createHook
		m.createHook = nil
		if err := hook(); err != nil {
			return nil, err
		}
	}
	for _, a := range m.accounts {
		if a.Email == input.Email {
			return nil, ErrDuplicateKey
		}
		if input.OAuthID != "" && a.OAuthID == input.OAuthID {
			return nil, ErrDuplicateKey
		}
	}
	account := &Account{
		ID:           input.ID,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		OAuthID:      input.OAuthID,
	}
	m.accounts[account.ID] = account
	m.writes++
	cp := *account
	return &cp, nil
}

func (m *mockAccountStore) UpdateOAuthID(_ context.Context, id, oauthID string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	account, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if account.OAuthID != "" {
		return nil, ErrDuplicateKey
	}
	account.OAuthID = oauthID
	m.writes++
	cp := *account
	return &cp, nil
}

// insert seeds an account directly, bypassing flow logic.
func (m *mockAccountStore) insert(a Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := a
	m.accounts[a.ID] = &cp
}

func (m *mockAccountStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func storedRefreshToken(t *testing.T, mr *miniredis.Miniredis, accountID string) string {
	t.Helper()
	val, err := mr.Get("refresh_token:" + accountID)
	if err != nil {
		t.Fatalf("refresh token lookup for %s failed: %v", accountID, err)
	}
	return val
}

func mustSignup(t *testing.T, e *Engine, name, email, pass string) *Session {
	t.Helper()
	session, err := e.Signup(context.Background(), SignupInput{Name: name, Email: email, Password: pass})
	if err != nil {
		t.Fatalf("Signup(%s) failed: %v", email, err)
	}
	return session
}

func waitForAudit(t *testing.T, sink *ChannelSink, eventType string) AuditEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for audit event %q", eventType)
		}
	}
}
