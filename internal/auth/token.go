package auth

import (
	"crypto/rand"   // secure random data for token ids
	"crypto/sha256" // SHA-256 hashing for the optional refresh registry
	"encoding/hex"  // hex encoding and decoding functions
	"time"          // expiry arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenConfig carries the process-wide signing parameters. The secret is
// set once at startup and only ever read afterwards, so a TokenConfig value
// is safe to share across concurrent requests.
type TokenConfig struct {
	Secret     string        // HMAC signing secret
	AccessTTL  time.Duration // lifetime of access tokens
	RefreshTTL time.Duration // lifetime of refresh tokens; 0 means no expiry claim
}

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and carried in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT whose subject is the user's
// email. The claims are sub, exp (now + AccessTTL), iat and a random jti
// so two tokens minted in the same second still differ. Validity is
// determined purely by signature and expiry; no server-side record exists.
func (c TokenConfig) NewAccessToken(subject string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(c.AccessTTL)
	jti, err := randomHex(8)
	if err != nil {
		return AccessToken{}, err
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
		"jti": jti,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(c.Secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken signs an HS256 JWT used only to mint new access tokens.
// When RefreshTTL is zero the token carries no exp claim and never expires
// on its own; a positive RefreshTTL adds an absolute expiry.
func (c TokenConfig) NewRefreshToken(subject string) (string, error) {
	now := time.Now().UTC()
	jti, err := randomHex(8)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"jti": jti,
	}
	if c.RefreshTTL > 0 {
		claims["exp"] = now.Add(c.RefreshTTL).Unix()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(c.Secret))
}

// Validate parses and verifies a token string. Every failure mode (bad
// signature, malformed input, a non-HMAC alg header, expired exp) funnels
// into ErrInvalidToken so callers cannot leak which check failed. On
// success the decoded claim map is returned; presence of the subject claim
// is the caller's concern.
func (c TokenConfig) Validate(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(c.Secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject extracts the sub claim as a string. The second return value is
// false when the claim is absent or not a string.
func Subject(claims jwt.MapClaims) (string, bool) {
	s, ok := claims["sub"].(string)
	return s, ok && s != ""
}

// RefreshExpiry returns a pointer to the configured refresh expiry for the
// current clock reading, or nil when refresh tokens do not expire. The
// registry stores this alongside the token hash.
func (c TokenConfig) RefreshExpiry() *time.Time {
	if c.RefreshTTL <= 0 {
		return nil
	}
	exp := time.Now().UTC().Add(c.RefreshTTL)
	return &exp
}

// HashRefreshRaw returns the SHA-256 hash of a refresh token as a hex
// string. The registry stores only the hash so a leaked table cannot be
// replayed against the refresh endpoint.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
