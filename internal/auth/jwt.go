// jwt.go implements the stateless bearer token service: HMAC-SHA256 signed claims
// carrying user id, organization id, and role, bounded by an expiry timestamp.
//
// The signing secret is explicit constructor state rather than a package-level
// global so that two TokenService instances with distinct secrets can be tested in
// isolation and reject each other's tokens. The service holds no other state: both
// Issue and Authenticate are functions of their inputs and the secret.
//
// The role and organization claims are a snapshot taken at issuance. A role change
// or account deactivation takes effect only after the token expires and the user
// logs in again; nothing here re-validates claims against current user records.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens, and tokens whose
	// organization or role claims are absent or unparseable.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for structurally valid tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// DefaultTokenTTL is used when the service is constructed with a zero ttl.
const DefaultTokenTTL = 24 * time.Hour

// Identity is the authenticated caller resolved from a token: who they are, which
// tenant they belong to, and what they may do.
type Identity struct {
	UserID string
	OrgID  string
	Role   Role
}

// Claims is the wire shape of the token payload. The user id rides in the
// registered "sub" claim.
type Claims struct {
	OrgID string `json:"org"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and authenticates signed bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. A zero ttl falls back
// to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue constructs and signs a token for the given identity snapshot. It returns
// the compact token string and its expiry time.
func (s *TokenService) Issue(userID, orgID string, role Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		OrgID: orgID,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "notebase",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Authenticate verifies a token's signature and expiry and resolves it to an
// Identity. Expired tokens yield ErrTokenExpired; every other failure — bad
// signature, wrong algorithm, missing or malformed subject/org/role claims —
// yields ErrInvalidToken.
func (s *TokenService) Authenticate(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.OrgID == "" {
		return nil, ErrInvalidToken
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: claims.Subject,
		OrgID:  claims.OrgID,
		Role:   role,
	}, nil
}
