package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("preferences not found")

type Repo interface {
	GetOrCreate(ctx context.Context, userID string) (Preferences, error)
	Update(ctx context.Context, userID string, p Preferences) (Preferences, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

// GetOrCreate reads the user's row, inserting the defaults first if none
// exists yet. The insert tolerates a concurrent first read creating the row
// in between.
func (r *RepoImpl) GetOrCreate(ctx context.Context, userID string) (Preferences, error) {
	query := `INSERT INTO user_preferences (user_id)
			  VALUES ($1)
			  ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		err := fmt.Errorf("could not insert default preferences: %w", err)
		log.Error(err)
		return Preferences{}, err
	}
	return r.get(ctx, userID)
}

func (r *RepoImpl) get(ctx context.Context, userID string) (Preferences, error) {
	var p Preferences
	query := `SELECT id, user_id, currency, theme, created_at
			  FROM user_preferences
			  WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Currency, &p.Theme, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query preferences: %w", err)
		log.Error(err)
		return Preferences{}, err
	}
	return p, nil
}

func (r *RepoImpl) Update(ctx context.Context, userID string, p Preferences) (Preferences, error) {
	query := `INSERT INTO user_preferences (user_id, currency, theme)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_id) DO UPDATE SET
				  currency = EXCLUDED.currency,
				  theme = EXCLUDED.theme,
				  updated_at = CURRENT_TIMESTAMP
			  RETURNING id, user_id, currency, theme, created_at`
	err := r.db.QueryRowContext(ctx, query, userID, p.Currency, p.Theme).
		Scan(&p.ID, &p.UserID, &p.Currency, &p.Theme, &p.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not update preferences: %w", err)
		log.Error(err)
		return Preferences{}, err
	}
	return p, nil
}
