package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret:     "test-secret-not-for-production",
		Issuer:     "abrigo-animais-test",
		Expiration: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestSignAndValidate(t *testing.T) {
	svc := newTestService(t)

	tok, err := svc.Sign(Claims{UserID: "user-1", Email: "ana@abrigo.org", Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := svc.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@abrigo.org", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "abrigo-animais-test", claims.Issuer)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t)

	tok, err := svc.Sign(Claims{UserID: "user-1", Role: "user"})
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	_, err = svc.Validate(tampered)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService(Config{Secret: "another-secret", Issuer: "abrigo-animais-test"})
	require.NoError(t, err)

	tok, err := other.Sign(Claims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := svc.Sign(Claims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Validate(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService(Config{Secret: "test-secret-not-for-production", Issuer: "outro"})
	require.NoError(t, err)

	tok, err := other.Sign(Claims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(Config{Secret: "  "})
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestValidateRejectsMalformed(t *testing.T) {
	svc := newTestService(t)
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
		_, err := svc.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
