// This file defines the User model and repository used by registration
// and login.  Passwords are stored as bcrypt hashes only.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User mirrors the users table.  Role is either ADMIN or CUSTOMER and
// ends up in the JWT's role claim.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRepo manages persistence for users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user.  A duplicate email surfaces as ErrEmailTaken
// via the unique index on users.email.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM users WHERE id = ?`, u.ID).Scan(&u.CreatedAt)
}

// GetByEmail retrieves a user by email for login.  Returns
// ErrUserNotFound when the email is unknown.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`
	var u User
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID for the /me endpoint.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*User, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?`
	var u User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
