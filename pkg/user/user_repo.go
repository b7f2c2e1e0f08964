package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type Repo interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, string, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName string) (User, error)
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) (bool, error)
	ResetPassword(ctx context.Context, token, passwordHash string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Create(ctx context.Context, email, passwordHash, firstName, lastName string) (User, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		err := fmt.Errorf("could not check email availability: %w", err)
		log.Error(err)
		return User{}, err
	}
	if exists {
		return User{}, ErrEmailTaken
	}

	query := `INSERT INTO users (email, password, first_name, last_name)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, email, first_name, last_name, created_at`
	var u User
	err = r.db.QueryRowContext(ctx, query, email, passwordHash, firstName, lastName).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) GetByID(ctx context.Context, id string) (User, error) {
	query := `SELECT id, email, first_name, last_name, created_at FROM users WHERE id = $1`
	var u User
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}

// GetByEmail returns the user together with the stored password hash.
func (r *RepoImpl) GetByEmail(ctx context.Context, email string) (User, string, error) {
	query := `SELECT id, email, password, first_name, last_name, created_at FROM users WHERE email = $1`
	var u User
	var hash string
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query user: %w", err)
		log.Error(err)
		return User{}, "", err
	}
	return u, hash, nil
}

func (r *RepoImpl) UpdateProfile(ctx context.Context, id, firstName, lastName string) (User, error) {
	query := `UPDATE users SET first_name = $2, last_name = $3, updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1
			  RETURNING id, email, first_name, last_name, created_at`
	var u User
	err := r.db.QueryRowContext(ctx, query, id, firstName, lastName).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) SetResetToken(ctx context.Context, email, token string, expiry time.Time) (bool, error) {
	query := `UPDATE users SET reset_token = $2, reset_token_expiry = $3 WHERE email = $1`
	result, err := r.db.ExecContext(ctx, query, email, token, expiry)
	if err != nil {
		err := fmt.Errorf("could not store reset token: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

// ResetPassword swaps the password and clears the token in one statement; the
// expiry check is part of the WHERE clause so an expired token never matches.
func (r *RepoImpl) ResetPassword(ctx context.Context, token, passwordHash string) (bool, error) {
	query := `UPDATE users SET password = $2, reset_token = NULL, reset_token_expiry = NULL
			  WHERE reset_token = $1 AND reset_token_expiry > NOW()`
	result, err := r.db.ExecContext(ctx, query, token, passwordHash)
	if err != nil {
		err := fmt.Errorf("could not reset password: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}
