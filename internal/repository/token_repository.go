package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists and validates refresh tokens. Only the SHA-256
// hash of a token ever reaches this layer.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Store inserts a refresh token hash row for a professor.
func (r *TokenRepo) Store(ctx context.Context, professorID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (professor_id, token_hash, expires_at) VALUES (?, ?, ?)",
		professorID, tokenHash, exp)
	return err
}

// Validate returns the owning professor ID if a non-revoked,
// non-expired token exists; otherwise ErrNotFound.
func (r *TokenRepo) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		professorID uint64
		expiresAt   time.Time
		revokedAt   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT professor_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1",
		tokenHash).Scan(&professorID, &expiresAt, &revokedAt)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, ErrNotFound
	}
	return professorID, nil
}

// Revoke marks a single token as revoked.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForProfessor revokes every active token owned by a professor.
func (r *TokenRepo) RevokeAllForProfessor(ctx context.Context, professorID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = NOW() WHERE professor_id = ? AND revoked_at IS NULL",
		professorID)
	return err
}

// PurgeExpired deletes tokens past their expiry. Intended for a
// periodic maintenance call; losing the rows is harmless since expired
// tokens already fail Validate.
func (r *TokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at < NOW()")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
