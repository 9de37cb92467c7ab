package model

import "time"

// Professor represents a row in the `professores` table. Professors are
// the only authenticated principals in the system; reservations
// reference them by ID. The password is stored exclusively as a bcrypt
// hash, never in the clear.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – timestamp of creation.
type Professor struct {
	ID           uint64    // professores.id
	Name         string    // professores.nome
	Email        string    // professores.email
	PasswordHash string    // professores.senha_hash
	CreatedAt    time.Time // professores.criado_em
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token is persisted; the raw value goes back to
// the client once and is never stored.
//
// Fields:
//  ID          – primary key identifier.
//  ProfessorID – owner of the token.
//  TokenHash   – SHA-256 hex digest of the raw token.
//  ExpiresAt   – expiration timestamp.
//  RevokedAt   – when the token was revoked (null while active).
//  CreatedAt   – timestamp of creation.
type RefreshToken struct {
	ID          uint64     // refresh_tokens.id
	ProfessorID uint64     // refresh_tokens.professor_id
	TokenHash   string     // refresh_tokens.token_hash
	ExpiresAt   time.Time  // refresh_tokens.expires_at
	RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt   time.Time  // refresh_tokens.created_at
}
