package user

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scoutline/recruiting-data/internal/user/entity"
)

// TokenIssuer signs and verifies HS256 session tokens for the HTTP surface.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

var ErrInvalidToken = errors.New("invalid token")

func NewTokenIssuer(secret []byte, issuer string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue creates a signed session token for the user.
func (t *TokenIssuer) Issue(u *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   u.ID,
		"email": u.Email,
		"admin": u.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify parses a session token and returns the user id it was issued for.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
