package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	Type   string    `json:"typ"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token of the given type. The returned id is the jti claim.
func NewToken(secret []byte, userID uuid.UUID, email, typ string, ttl time.Duration, now time.Time) (token string, id string, err error) {
	id = uuid.NewString()

	claims := Claims{
		UserID: userID,
		Email:  email,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	return token, id, nil
}

// ParseToken verifies the signature and expiry of tokenString and checks its type.
func ParseToken(secret []byte, tokenString, typ string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Type != typ || claims.UserID == uuid.Nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
