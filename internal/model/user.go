package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password is never kept in plaintext; PasswordHash holds the
// bcrypt digest produced at registration or on password reset. Email is
// unique at the database level and doubles as the subject claim of every
// token issued for the account.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name, also used for deactivation lookups.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`    // users.id
	Name         string    `json:"name"`  // users.name
	Email        string    `json:"email"` // users.email
	PasswordHash string    `json:"-"`     // users.password_hash (never serialized)
	CreatedAt    time.Time `json:"-"`     // users.created_at
	UpdatedAt    time.Time `json:"-"`     // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. The table is
// only populated when the server-side refresh registry is enabled; in the
// default stateless mode refresh tokens live entirely in the JWT itself.
// The raw token is not stored, only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp (null for non-expiring tokens).
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt *time.Time // refresh_tokens.expires_at (nullable)
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
