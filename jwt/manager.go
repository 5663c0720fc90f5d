package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes the two token shapes via the "typ" claim.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// ErrExpired is returned by Parse when the signature is valid but the
// expiry has passed.
var ErrExpired = errors.New("token expired")

// ErrInvalid is returned by Parse for any signature, format, or claim
// failure other than expiry.
var ErrInvalid = errors.New("token invalid")

// Config controls token minting and verification.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

// Manager mints and verifies HS256-signed tokens. Verification is stateless:
// anyone holding the secret can validate a token without a store round-trip.
type Manager struct {
	config Config
}

// Claims is the claim set carried by both token types.
type Claims struct {
	AccountID string `json:"uid"`
	Type      string `json:"typ"`
	jwt.RegisteredClaims
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires a signing secret")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// CreateAccess mints a short-lived access token for accountID.
func (m *Manager) CreateAccess(accountID string) (string, error) {
	return m.create(accountID, TypeAccess, m.config.AccessTTL)
}

// CreateRefresh mints a long-lived refresh token for accountID.
func (m *Manager) CreateRefresh(accountID string) (string, error) {
	return m.create(accountID, TypeRefresh, m.config.RefreshTTL)
}

func (m *Manager) create(accountID string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Type:      string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			// jti makes every issuance unique even within one second.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Secret)
}

// Parse verifies signature and expiry and returns the claims. Failures are
// collapsed to ErrExpired or ErrInvalid; callers never see library errors.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
