package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Repo interface {
	TotalsByType(ctx context.Context, userID string) (income, expenses float64, err error)
	TotalsByTypeBetween(ctx context.Context, userID string, start, end time.Time) (income, expenses float64, err error)
	CategoryBreakdown(ctx context.Context, userID string) ([]CategoryTotal, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const totalsSelect = `SELECT
				  COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
				  COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
			  FROM transactions`

func (r *RepoImpl) TotalsByType(ctx context.Context, userID string) (float64, float64, error) {
	var income, expenses float64
	query := totalsSelect + ` WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&income, &expenses); err != nil {
		err := fmt.Errorf("could not query transaction totals: %w", err)
		log.Error(err)
		return 0, 0, err
	}
	return income, expenses, nil
}

func (r *RepoImpl) TotalsByTypeBetween(ctx context.Context, userID string, start, end time.Time) (float64, float64, error) {
	var income, expenses float64
	query := totalsSelect + ` WHERE user_id = $1 AND date >= $2 AND date <= $3`
	err := r.db.QueryRowContext(ctx, query, userID, start.Format(dateLayout), end.Format(dateLayout)).
		Scan(&income, &expenses)
	if err != nil {
		err := fmt.Errorf("could not query windowed transaction totals: %w", err)
		log.Error(err)
		return 0, 0, err
	}
	return income, expenses, nil
}

func (r *RepoImpl) CategoryBreakdown(ctx context.Context, userID string) ([]CategoryTotal, error) {
	query := `SELECT t.category_id, c.name, t.type, SUM(t.amount)
			  FROM transactions t
			  JOIN categories c ON t.category_id = c.id
			  WHERE t.user_id = $1
			  GROUP BY t.category_id, c.name, t.type
			  ORDER BY SUM(t.amount) DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		err := fmt.Errorf("could not query category breakdown: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var breakdown []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Type, &ct.Total); err != nil {
			err := fmt.Errorf("could not scan category total: %w", err)
			log.Error(err)
			return nil, err
		}
		breakdown = append(breakdown, ct)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return breakdown, nil
}
