package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testManager(t *testing.T, mutate func(*Config)) *Manager {
	t.Helper()

	cfg := Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "identity-test",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing secret", Config{AccessTTL: time.Hour, RefreshTTL: time.Hour * 2}},
		{"zero access ttl", Config{Secret: []byte("s"), RefreshTTL: time.Hour}},
		{"zero refresh ttl", Config{Secret: []byte("s"), AccessTTL: time.Hour}},
		{"excessive leeway", Config{Secret: []byte("s"), AccessTTL: time.Hour, RefreshTTL: time.Hour * 2, Leeway: time.Hour}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestAccessRoundtrip(t *testing.T) {
	m := testManager(t, nil)

	token, err := m.CreateAccess("acc-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.AccountID != "acc-1" {
		t.Fatalf("uid = %q, want acc-1", claims.AccountID)
	}
	if claims.Type != string(TypeAccess) {
		t.Fatalf("typ = %q, want access", claims.Type)
	}
}

func TestRefreshCarriesType(t *testing.T) {
	m := testManager(t, nil)

	token, err := m.CreateRefresh("acc-1")
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Type != string(TypeRefresh) {
		t.Fatalf("typ = %q, want refresh", claims.Type)
	}
}

func TestTokensAreUniquePerIssuance(t *testing.T) {
	m := testManager(t, nil)

	a, _ := m.CreateAccess("acc-1")
	b, _ := m.CreateAccess("acc-1")
	if a == b {
		t.Fatal("two issuances produced identical tokens")
	}
}

func TestParseExpired(t *testing.T) {
	m := testManager(t, func(cfg *Config) {
		cfg.AccessTTL = time.Nanosecond
	})

	token, err := m.CreateAccess("acc-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseExpiredWithinLeeway(t *testing.T) {
	m := testManager(t, func(cfg *Config) {
		cfg.AccessTTL = time.Millisecond
		cfg.Leeway = time.Minute
	})

	token, err := m.CreateAccess("acc-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Parse(token); err != nil {
		t.Fatalf("expected leeway to cover the expiry, got %v", err)
	}
}

func TestParseForeignSecret(t *testing.T) {
	m := testManager(t, nil)
	other := testManager(t, func(cfg *Config) {
		cfg.Secret = []byte("ffffffffffffffffffffffffffffffff")
	})

	token, err := other.CreateAccess("acc-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseWrongIssuer(t *testing.T) {
	m := testManager(t, nil)
	other := testManager(t, func(cfg *Config) {
		cfg.Issuer = "someone-else"
	})

	token, err := other.CreateAccess("acc-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseTampered(t *testing.T) {
	m := testManager(t, nil)

	token, err := m.CreateAccess("acc-1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if _, err := m.Parse(tampered); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := testManager(t, nil)
	for _, token := range []string{"", "x", "a.b", "a.b.c.d"} {
		if _, err := m.Parse(token); !errors.Is(err, ErrInvalid) {
			t.Fatalf("token %q: expected ErrInvalid, got %v", token, err)
		}
	}
}
