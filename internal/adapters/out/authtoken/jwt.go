// internal/adapters/out/authtoken/jwt.go
package authtoken

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	uc "storefront/internal/application/usecase"
	udom "storefront/internal/domain/user"
)

const issuer = "storefront"

var ErrInvalidToken = errors.New("authtoken: invalid token")

// Claims is the payload of issued tokens.
type Claims struct {
	Email string `json:"email"`
	Role  int    `json:"role"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 tokens.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) (*JWT, error) {
	if len(strings.TrimSpace(secret)) < 16 {
		return nil, fmt.Errorf("authtoken: jwt secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue implements usecase.TokenIssuer.
func (j *JWT) Issue(u udom.User) (string, error) {
	now := j.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// Verify implements usecase.TokenVerifier.
func (j *JWT) Verify(_ context.Context, raw string) (uc.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uc.Identity{}, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return j.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return uc.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return uc.Identity{}, fmt.Errorf("%w: subject missing", ErrInvalidToken)
	}
	return uc.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
