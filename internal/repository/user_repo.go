package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vision_runner/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserRepository)(nil)

const (
	insertUserSQL        = `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`
	selectUserByEmailSQL = `SELECT id, username, email, password_hash FROM users WHERE email = ?`
)

// Create inserts a new user. A duplicate email fails on the UNIQUE constraint.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, email, passwordHash)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return models.User{
		ID:           int(lastID),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return &u, nil
}
