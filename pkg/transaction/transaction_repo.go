package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("transaction not found")

const dateLayout = "2006-01-02"

type Repo interface {
	Store(ctx context.Context, userID string, t Transaction) (Transaction, error)
	List(ctx context.Context, userID string, filter Filter, page, pageSize int) (Page, error)
	GetByID(ctx context.Context, userID string, id string) (Transaction, error)
	Update(ctx context.Context, userID string, t Transaction) (Transaction, error)
	Delete(ctx context.Context, userID string, id string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userID string, t Transaction) (Transaction, error) {
	query := `INSERT INTO transactions (
				  user_id, amount, type, category_id, description, date,
				  is_recurring, recurring_period, recurring_end_date
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		userID,
		t.Amount,
		t.Type,
		t.CategoryID,
		t.Description,
		t.Date.Format(dateLayout),
		t.IsRecurring,
		nullableString(string(t.RecurringPeriod)),
		nullableDate(t.RecurringEndDate),
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not insert transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	t.UserID = userID
	return t, nil
}

func (r *RepoImpl) List(ctx context.Context, userID string, filter Filter, page, pageSize int) (Page, error) {
	where := []string{"t.user_id = $1"}
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("t.type = $%d", len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate.Format(dateLayout))
		where = append(where, fmt.Sprintf("t.date >= $%d", len(args)))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate.Format(dateLayout))
		where = append(where, fmt.Sprintf("t.date <= $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions t WHERE %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		err := fmt.Errorf("could not count transactions: %w", err)
		log.Error(err)
		return Page{}, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT t.id, t.user_id, t.amount, t.type, t.category_id, c.name,
				  COALESCE(t.description, ''), t.date, t.is_recurring,
				  COALESCE(t.recurring_period, ''), t.recurring_end_date, t.created_at
			  FROM transactions t
			  JOIN categories c ON t.category_id = c.id
			  WHERE %s
			  ORDER BY t.date DESC, t.created_at DESC
			  LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return Page{}, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0, pageSize)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return Page{}, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return Page{}, err
	}

	return Page{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		TotalPages:   (total + pageSize - 1) / pageSize,
	}, nil
}

func (r *RepoImpl) GetByID(ctx context.Context, userID string, id string) (Transaction, error) {
	query := `SELECT t.id, t.user_id, t.amount, t.type, t.category_id, c.name,
				  COALESCE(t.description, ''), t.date, t.is_recurring,
				  COALESCE(t.recurring_period, ''), t.recurring_end_date, t.created_at
			  FROM transactions t
			  JOIN categories c ON t.category_id = c.id
			  WHERE t.id = $1 AND t.user_id = $2`
	row := r.db.QueryRowContext(ctx, query, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return t, nil
}

func (r *RepoImpl) Update(ctx context.Context, userID string, t Transaction) (Transaction, error) {
	query := `UPDATE transactions SET
				  amount = $3,
				  type = $4,
				  category_id = $5,
				  description = $6,
				  date = $7,
				  is_recurring = $8,
				  recurring_period = $9,
				  recurring_end_date = $10,
				  updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query,
		t.ID,
		userID,
		t.Amount,
		t.Type,
		t.CategoryID,
		t.Description,
		t.Date.Format(dateLayout),
		t.IsRecurring,
		nullableString(string(t.RecurringPeriod)),
		nullableDate(t.RecurringEndDate),
	)
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	if rowsAffected != 1 {
		return Transaction{}, ErrNotFound
	}
	return r.GetByID(ctx, userID, t.ID)
}

func (r *RepoImpl) Delete(ctx context.Context, userID string, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var t Transaction
	var period string
	var recurringEnd sql.NullTime
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.CategoryID, &t.CategoryName,
		&t.Description, &t.Date, &t.IsRecurring, &period, &recurringEnd, &t.CreatedAt,
	)
	if err != nil {
		return Transaction{}, err
	}
	t.RecurringPeriod = RecurringPeriod(period)
	if recurringEnd.Valid {
		t.RecurringEndDate = recurringEnd.Time
	}
	return t, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}
