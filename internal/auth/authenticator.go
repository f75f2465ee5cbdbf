package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/magsub/subscription-api/internal/model"
)

// CredentialStore is the slice of the user repository the Authenticator
// needs: resolving an identity by the email carried in credentials or in a
// token subject claim.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// RefreshStore is the optional server-side refresh-token registry. When
// wired in, issued refresh tokens are recorded by hash and the refresh
// flow additionally requires a live, unrevoked row.
type RefreshStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, expiresAt *time.Time) error
	Validate(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// TokenPair is what a successful login returns to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
}

// Authenticator orchestrates login, refresh and bearer resolution. Each
// call is an independent bounded unit of work; the struct holds no mutable
// state beyond its read-only configuration and is safe for concurrent use.
type Authenticator struct {
	Tokens  TokenConfig
	Users   CredentialStore
	Refresh RefreshStore // nil disables the registry (default)
	Rotate  bool         // when true, a refresh returns a new refresh token

	dummyHash string // cost-matched hash compared against on unknown email
}

// NewAuthenticator builds an Authenticator. The bcrypt cost is used to
// precompute a dummy hash so that login attempts against unknown emails
// still pay the full verification cost and stay indistinguishable from
// wrong-password attempts.
func NewAuthenticator(tokens TokenConfig, users CredentialStore, refresh RefreshStore, rotate bool, bcryptCost int) (*Authenticator, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("magsub.dummy"), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{
		Tokens:    tokens,
		Users:     users,
		Refresh:   refresh,
		Rotate:    rotate,
		dummyHash: string(dummy),
	}, nil
}

// Login verifies the email/password pair and issues a token pair. Unknown
// email and wrong password both return ErrAuthentication with no
// observable difference between the two.
func (a *Authenticator) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		VerifyPassword(a.dummyHash, password)
		return TokenPair{}, ErrAuthentication
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, ErrAuthentication
	}
	return a.issuePair(ctx, u)
}

// RefreshAccess validates a refresh token and mints a new access token.
// Unless rotation is enabled the same refresh token is handed back
// unchanged. With the registry enabled the token hash must also resolve to
// a live row; a rotated-out token is revoked there.
func (a *Authenticator) RefreshAccess(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := a.Tokens.Validate(refreshToken)
	if err != nil {
		return TokenPair{}, ErrAuthentication
	}
	email, ok := Subject(claims)
	if !ok {
		return TokenPair{}, ErrAuthentication
	}
	if a.Refresh != nil {
		if _, err := a.Refresh.Validate(ctx, HashRefreshRaw(refreshToken)); err != nil {
			return TokenPair{}, ErrAuthentication
		}
	}
	u, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, ErrAuthentication
	}
	access, err := a.Tokens.NewAccessToken(u.Email)
	if err != nil {
		return TokenPair{}, ErrAuthentication
	}
	pair := TokenPair{AccessToken: access.Token, RefreshToken: refreshToken, AccessExp: access.Exp}
	if a.Rotate {
		next, err := a.Tokens.NewRefreshToken(u.Email)
		if err != nil {
			return TokenPair{}, ErrAuthentication
		}
		if a.Refresh != nil {
			if err := a.Refresh.Store(ctx, u.ID, HashRefreshRaw(next), a.Tokens.RefreshExpiry()); err != nil {
				return TokenPair{}, ErrAuthentication
			}
			_ = a.Refresh.RevokeByHash(ctx, HashRefreshRaw(refreshToken))
		}
		pair.RefreshToken = next
	}
	return pair, nil
}

// AuthenticateBearer resolves the identity behind an access token. Any
// failure (signature, expiry, missing subject, unknown identity)
// collapses into ErrAuthentication.
func (a *Authenticator) AuthenticateBearer(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := a.Tokens.Validate(accessToken)
	if err != nil {
		return model.User{}, ErrAuthentication
	}
	email, ok := Subject(claims)
	if !ok {
		return model.User{}, ErrAuthentication
	}
	u, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, ErrAuthentication
	}
	return u, nil
}

// issuePair mints both tokens for a verified user and records the refresh
// token in the registry when one is wired.
func (a *Authenticator) issuePair(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := a.Tokens.NewAccessToken(u.Email)
	if err != nil {
		return TokenPair{}, ErrAuthentication
	}
	refresh, err := a.Tokens.NewRefreshToken(u.Email)
	if err != nil {
		return TokenPair{}, ErrAuthentication
	}
	if a.Refresh != nil {
		if err := a.Refresh.Store(ctx, u.ID, HashRefreshRaw(refresh), a.Tokens.RefreshExpiry()); err != nil {
			return TokenPair{}, ErrAuthentication
		}
	}
	return TokenPair{AccessToken: access.Token, RefreshToken: refresh, AccessExp: access.Exp}, nil
}
