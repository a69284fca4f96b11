package jwt_test

import (
	"testing"
	"time"

	"kamaru/internal/lib/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	secret = []byte("test-secret")
	userID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
)

func TestNewToken_ParseToken(t *testing.T) {
	token, id, err := jwt.NewToken(secret, userID, "test@example.com", jwt.TypeAccess, time.Hour, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	claims, err := jwt.ParseToken(secret, token, jwt.TypeAccess)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, jwt.TypeAccess, claims.Type)
}

func TestParseToken_Expired(t *testing.T) {
	token, _, err := jwt.NewToken(secret, userID, "test@example.com", jwt.TypeAccess, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = jwt.ParseToken(secret, token, jwt.TypeAccess)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_Invalid(t *testing.T) {
	access, _, err := jwt.NewToken(secret, userID, "test@example.com", jwt.TypeAccess, time.Hour, time.Now())
	require.NoError(t, err)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"uid": userID.String(),
		"typ": jwt.TypeAccess,
		"jti": "x",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		typ   string
		key   []byte
	}{
		{name: "garbage", token: "not-a-token", typ: jwt.TypeAccess, key: secret},
		{name: "wrong secret", token: access, typ: jwt.TypeAccess, key: []byte("other")},
		{name: "wrong type", token: access, typ: jwt.TypeRefresh, key: secret},
		{name: "alg none", token: none, typ: jwt.TypeAccess, key: secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwt.ParseToken(tt.key, tt.token, tt.typ)
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		})
	}
}
