package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("budget not found")

const dateLayout = "2006-01-02"

type Repo interface {
	Store(ctx context.Context, userID string, b Budget) (Budget, error)
	ListActive(ctx context.Context, userID string) ([]Budget, error)
	GetByID(ctx context.Context, userID string, id string) (Budget, error)
	Update(ctx context.Context, userID string, b Budget) (Budget, error)
	Delete(ctx context.Context, userID string, id string) (bool, error)
	RecomputeSpent(ctx context.Context, userID string, categoryID string) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const budgetColumns = `b.id, b.user_id, b.category_id, c.name, b.amount, b.spent,
				  b.period, b.start_date, b.end_date, b.alert_threshold, b.is_active, b.created_at`

func (r *RepoImpl) Store(ctx context.Context, userID string, b Budget) (Budget, error) {
	query := `INSERT INTO budgets (
				  user_id, category_id, amount, period, start_date, end_date, alert_threshold
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, spent, is_active, created_at`
	err := r.db.QueryRowContext(ctx, query,
		userID,
		b.CategoryID,
		b.Amount,
		b.Period,
		b.StartDate.Format(dateLayout),
		b.EndDate.Format(dateLayout),
		b.AlertThreshold,
	).Scan(&b.ID, &b.Spent, &b.IsActive, &b.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	b.UserID = userID
	return b, nil
}

func (r *RepoImpl) ListActive(ctx context.Context, userID string) ([]Budget, error) {
	query := fmt.Sprintf(`SELECT %s
			  FROM budgets b
			  JOIN categories c ON b.category_id = c.id
			  WHERE b.user_id = $1 AND b.is_active = TRUE
			  ORDER BY b.created_at DESC`, budgetColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			err := fmt.Errorf("could not scan budget: %w", err)
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func (r *RepoImpl) GetByID(ctx context.Context, userID string, id string) (Budget, error) {
	query := fmt.Sprintf(`SELECT %s
			  FROM budgets b
			  JOIN categories c ON b.category_id = c.id
			  WHERE b.id = $1 AND b.user_id = $2`, budgetColumns)
	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Budget{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return b, nil
}

func (r *RepoImpl) Update(ctx context.Context, userID string, b Budget) (Budget, error) {
	query := `UPDATE budgets SET
				  category_id = $3,
				  amount = $4,
				  period = $5,
				  start_date = $6,
				  end_date = $7,
				  alert_threshold = $8,
				  is_active = $9,
				  updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query,
		b.ID,
		userID,
		b.CategoryID,
		b.Amount,
		b.Period,
		b.StartDate.Format(dateLayout),
		b.EndDate.Format(dateLayout),
		b.AlertThreshold,
		b.IsActive,
	)
	if err != nil {
		err := fmt.Errorf("could not update budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	if rowsAffected != 1 {
		return Budget{}, ErrNotFound
	}
	return r.GetByID(ctx, userID, b.ID)
}

func (r *RepoImpl) Delete(ctx context.Context, userID string, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		err := fmt.Errorf("could not delete budget: %w", err)
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

// RecomputeSpent refreshes the cached spent figure for every active budget on
// the category. The aggregate is computed and written in one statement, so
// concurrent ledger writes can never interleave a stale read between the sum
// and the assignment.
func (r *RepoImpl) RecomputeSpent(ctx context.Context, userID string, categoryID string) error {
	query := `UPDATE budgets b SET
				  spent = (
					  SELECT COALESCE(SUM(t.amount), 0)
					  FROM transactions t
					  WHERE t.user_id = b.user_id
						AND t.category_id = b.category_id
						AND t.type = 'expense'
						AND t.date >= b.start_date
						AND t.date <= b.end_date
				  ),
				  updated_at = CURRENT_TIMESTAMP
			  WHERE b.user_id = $1 AND b.category_id = $2 AND b.is_active = TRUE`
	if _, err := r.db.ExecContext(ctx, query, userID, categoryID); err != nil {
		err := fmt.Errorf("could not recompute budget spent: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (Budget, error) {
	var b Budget
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Amount, &b.Spent,
		&b.Period, &b.StartDate, &b.EndDate, &b.AlertThreshold, &b.IsActive, &b.CreatedAt,
	)
	if err != nil {
		return Budget{}, err
	}
	return b, nil
}
