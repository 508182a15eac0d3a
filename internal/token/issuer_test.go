package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"backend/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewIssuerRejectsShortSecret(t *testing.T) {
	_, err := token.NewIssuer([]byte("too short"), time.Hour)
	require.Error(t, err)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer, err := token.NewIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	tokenString, expiresAt, err := issuer.Issue(42, 3)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Verify(tokenString)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, int64(3), claims.RoleID)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer, err := token.NewIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	tokenString, _, err := issuer.Issue(42, 3)
	require.NoError(t, err)

	// Flip a character in the signature segment
	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, err := token.NewIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)
	other, err := token.NewIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	require.NoError(t, err)

	tokenString, _, err := other.Issue(42, 3)
	require.NoError(t, err)

	_, err = issuer.Verify(tokenString)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer, err := token.NewIssuer([]byte(testSecret), -time.Minute)
	require.NoError(t, err)

	tokenString, _, err := issuer.Issue(42, 3)
	require.NoError(t, err)

	// Expired-but-correctly-signed fails exactly like invalid
	_, err = issuer.Verify(tokenString)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer, err := token.NewIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify("not.a.token")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}
