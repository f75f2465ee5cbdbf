package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens(accessTTL, refreshTTL time.Duration) TokenConfig {
	return TokenConfig{Secret: "test-secret", AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := testTokens(30*time.Minute, 0)

	tok, err := cfg.NewAccessToken("a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 5*time.Second)

	claims, err := cfg.Validate(tok.Token)
	require.NoError(t, err)
	sub, ok := Subject(claims)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", sub)
}

func TestValidateExpiredToken(t *testing.T) {
	t.Parallel()
	cfg := testTokens(-1*time.Second, 0) // already expired at issue time

	tok, err := cfg.NewAccessToken("a@example.com")
	require.NoError(t, err)

	_, err = cfg.Validate(tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	t.Parallel()
	tok, err := testTokens(time.Hour, 0).NewAccessToken("a@example.com")
	require.NoError(t, err)

	other := TokenConfig{Secret: "another-secret", AccessTTL: time.Hour}
	_, err = other.Validate(tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTamperedPayload(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Hour, 0)
	tok, err := cfg.NewAccessToken("a@example.com")
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)

	// Flip a single byte of the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = cfg.Validate(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbageInput(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Hour, 0)
	for _, raw := range []string{"", "not-a-jwt", "a.b", "a.b.c.d", "..", "\x00\xff"} {
		_, err := cfg.Validate(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestValidateRejectsNonHMACAlg(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Hour, 0)

	// alg=none tokens must not slip through the HMAC check.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "a@example.com"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = cfg.Validate(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenWithoutExpiry(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Minute, 0)

	raw, err := cfg.NewRefreshToken("a@example.com")
	require.NoError(t, err)

	claims, err := cfg.Validate(raw)
	require.NoError(t, err)
	_, hasExp := claims["exp"]
	assert.False(t, hasExp, "refresh token should carry no expiry by default")
	assert.Nil(t, cfg.RefreshExpiry())
}

func TestRefreshTokenWithConfiguredExpiry(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Minute, 24*time.Hour)

	raw, err := cfg.NewRefreshToken("a@example.com")
	require.NoError(t, err)

	claims, err := cfg.Validate(raw)
	require.NoError(t, err)
	_, hasExp := claims["exp"]
	assert.True(t, hasExp, "refresh token should carry the configured expiry")

	exp := cfg.RefreshExpiry()
	require.NotNil(t, exp)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), *exp, 5*time.Second)
}

func TestAccessTokensAreUnique(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Hour, 0)

	t1, err := cfg.NewAccessToken("a@example.com")
	require.NoError(t, err)
	t2, err := cfg.NewAccessToken("a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, t1.Token, t2.Token)
}

func TestSubjectMissing(t *testing.T) {
	t.Parallel()
	cfg := testTokens(time.Hour, 0)

	// A validly signed token without a sub claim decodes fine but has no
	// usable subject; the authenticator treats that as a failure.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	claims, err := cfg.Validate(raw)
	require.NoError(t, err)
	_, ok := Subject(claims)
	assert.False(t, ok)
}
