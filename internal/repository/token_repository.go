// This file stores refresh tokens.  Only the SHA-256 hash of a token is
// persisted; possession of the database alone is not enough to mint new
// access tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo manages persistence for refresh tokens.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo constructs a TokenRepo with the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Store saves the hash of a refresh token together with its expiry.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, userID, tokenHash, expiresAt.UTC().Format("2006-01-02 15:04:05"))
	return err
}

// FindValidUser resolves a refresh token hash to its user, rejecting
// expired and revoked tokens with ErrTokenNotFound.
func (r *TokenRepo) FindValidUser(ctx context.Context, tokenHash string) (uint64, error) {
	const q = `SELECT user_id FROM refresh_tokens
		WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`
	var userID uint64
	err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTokenNotFound
		}
		return 0, err
	}
	return userID, nil
}

// Revoke marks a refresh token as revoked.  Revoking an unknown or
// already-revoked token returns ErrTokenNotFound.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, tokenHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
