package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("goal not found")

const dateLayout = "2006-01-02"

type Repo interface {
	Store(ctx context.Context, userID string, g Goal) (Goal, error)
	List(ctx context.Context, userID string) ([]Goal, error)
	GetByID(ctx context.Context, userID string, id string) (Goal, error)
	Update(ctx context.Context, userID string, g Goal) (Goal, error)
	Delete(ctx context.Context, userID string, id string) (bool, error)
	AddProgress(ctx context.Context, userID string, id string, amount float64) (Goal, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const goalColumns = `id, user_id, title, COALESCE(description, ''), target_amount,
				  current_amount, target_date, priority, is_completed, created_at`

func (r *RepoImpl) Store(ctx context.Context, userID string, g Goal) (Goal, error) {
	query := `INSERT INTO goals (user_id, title, description, target_amount, target_date, priority)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, current_amount, is_completed, created_at`
	err := r.db.QueryRowContext(ctx, query,
		userID,
		g.Title,
		g.Description,
		g.TargetAmount,
		g.TargetDate.Format(dateLayout),
		g.Priority,
	).Scan(&g.ID, &g.CurrentAmount, &g.IsCompleted, &g.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	g.UserID = userID
	return g, nil
}

func (r *RepoImpl) List(ctx context.Context, userID string) ([]Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE user_id = $1 ORDER BY priority DESC, target_date ASC`, goalColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		err := fmt.Errorf("could not query goals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			err := fmt.Errorf("could not scan goal: %w", err)
			log.Error(err)
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return goals, nil
}

func (r *RepoImpl) GetByID(ctx context.Context, userID string, id string) (Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1 AND user_id = $2`, goalColumns)
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	return g, nil
}

// Update writes the full row and re-derives is_completed from the written
// amounts inside the same statement, so a direct current_amount overwrite can
// never leave the completion flag stale.
func (r *RepoImpl) Update(ctx context.Context, userID string, g Goal) (Goal, error) {
	query := fmt.Sprintf(`UPDATE goals SET
				  title = $3,
				  description = $4,
				  target_amount = $5,
				  current_amount = $6,
				  target_date = $7,
				  priority = $8,
				  is_completed = $6 >= $5,
				  updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1 AND user_id = $2
			  RETURNING %s`, goalColumns)
	g, err := scanGoal(r.db.QueryRowContext(ctx, query,
		g.ID,
		userID,
		g.Title,
		g.Description,
		g.TargetAmount,
		g.CurrentAmount,
		g.TargetDate.Format(dateLayout),
		g.Priority,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update goal: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	return g, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userID string, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		err := fmt.Errorf("could not delete goal: %w", err)
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

// AddProgress increments current_amount and derives is_completed in one
// statement. Concurrent calls against the same goal serialize on the row, so
// no increment is ever lost to a stale read.
func (r *RepoImpl) AddProgress(ctx context.Context, userID string, id string, amount float64) (Goal, error) {
	query := fmt.Sprintf(`UPDATE goals SET
				  current_amount = current_amount + $3,
				  is_completed = current_amount + $3 >= target_amount,
				  updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1 AND user_id = $2
			  RETURNING %s`, goalColumns)
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, userID, amount))
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not add goal progress: %w", err)
		log.Error(err)
		return Goal{}, err
	}
	return g, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (Goal, error) {
	var g Goal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmount,
		&g.CurrentAmount, &g.TargetDate, &g.Priority, &g.IsCompleted, &g.CreatedAt,
	)
	if err != nil {
		return Goal{}, err
	}
	return g, nil
}
