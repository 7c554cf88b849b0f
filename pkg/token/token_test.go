package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	tokenString, err := GenerateJWT(42, testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "nextup", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	tokenString, err := GenerateJWT(1, testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString, "another-secret")
	require.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	tokenString, err := GenerateJWT(1, testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString, testSecret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateJWT_EmptyInputs(t *testing.T) {
	_, err := ValidateJWT("", testSecret)
	require.Error(t, err)

	_, err = ValidateJWT("not-empty", "")
	require.Error(t, err)
}

func TestValidateJWT_MissingUserID(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "nextup",
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateJWT(signed, testSecret)
	require.Error(t, err)
}

func TestValidateJWT_RejectsUnexpectedAlg(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, testSecret)
	require.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	tokenString, err := GenerateRefreshToken(9, testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), claims.ExpiresAt.Time, time.Minute)
}
