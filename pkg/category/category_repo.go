package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetAllVisible(ctx context.Context, userID string) ([]Category, error)
	GetByType(ctx context.Context, userID string, t Type) ([]Category, error)
	GetByID(ctx context.Context, userID string, id string) (Category, error)
	FindByName(ctx context.Context, userID, name string, t Type) (Category, bool, error)
	Store(ctx context.Context, userID string, category Category) (Category, error)
	Update(ctx context.Context, userID string, id string, patch Patch) (Category, error)
	Delete(ctx context.Context, userID string, id string) (bool, error)
	CountTransactions(ctx context.Context, categoryID string) (int, error)
	UsageStats(ctx context.Context, userID string) ([]UsageStat, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const categoryColumns = "id, name, type, color, icon, is_default, COALESCE(user_id::text, ''), created_at"

func (r *RepoImpl) GetAllVisible(ctx context.Context, userID string) ([]Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories
			  WHERE is_default = TRUE OR user_id = $1
			  ORDER BY name ASC`, categoryColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (r *RepoImpl) GetByType(ctx context.Context, userID string, t Type) ([]Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories
			  WHERE type = $2 AND (is_default = TRUE OR user_id = $1)
			  ORDER BY name ASC`, categoryColumns)
	rows, err := r.db.QueryContext(ctx, query, userID, t)
	if err != nil {
		err := fmt.Errorf("could not query categories by type: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (r *RepoImpl) GetByID(ctx context.Context, userID string, id string) (Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories
			  WHERE id = $1 AND (is_default = TRUE OR user_id = $2)`, categoryColumns)
	row := r.db.QueryRowContext(ctx, query, id, userID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return c, nil
}

// FindByName does a case-insensitive exact match among the categories visible
// to the user.
func (r *RepoImpl) FindByName(ctx context.Context, userID, name string, t Type) (Category, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories
			  WHERE LOWER(name) = LOWER($1) AND type = $2 AND (is_default = TRUE OR user_id = $3)`, categoryColumns)
	row := r.db.QueryRowContext(ctx, query, name, t, userID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not find category by name: %w", err)
		log.Error(err)
		return Category{}, false, err
	}
	return c, true, nil
}

func (r *RepoImpl) Store(ctx context.Context, userID string, category Category) (Category, error) {
	query := fmt.Sprintf(`INSERT INTO categories (name, type, color, icon, user_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING %s`, categoryColumns)
	row := r.db.QueryRowContext(ctx, query, category.Name, category.Type, category.Color, category.Icon, userID)
	c, err := scanCategory(row)
	if err != nil {
		err := fmt.Errorf("could not insert category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return c, nil
}

func (r *RepoImpl) Update(ctx context.Context, userID string, id string, patch Patch) (Category, error) {
	query := fmt.Sprintf(`UPDATE categories SET
				  name = COALESCE($3, name),
				  color = COALESCE($4, color),
				  icon = COALESCE($5, icon),
				  updated_at = CURRENT_TIMESTAMP
			  WHERE id = $1 AND user_id = $2 AND is_default = FALSE
			  RETURNING %s`, categoryColumns)
	row := r.db.QueryRowContext(ctx, query, id, userID, patch.Name, patch.Color, patch.Icon)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return c, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userID string, id string) (bool, error) {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2 AND is_default = FALSE`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		err := fmt.Errorf("could not delete category: %w", err)
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

func (r *RepoImpl) CountTransactions(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE category_id = $1", categoryID).Scan(&count)
	if err != nil {
		err := fmt.Errorf("could not count transactions for category: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

func (r *RepoImpl) UsageStats(ctx context.Context, userID string) ([]UsageStat, error) {
	query := `SELECT c.id, c.name, c.type, c.color, c.icon, c.is_default, COALESCE(c.user_id::text, ''), c.created_at,
				  COUNT(t.id), COALESCE(SUM(t.amount), 0)
			  FROM categories c
			  LEFT JOIN transactions t ON c.id = t.category_id AND t.user_id = $1
			  WHERE c.is_default = TRUE OR c.user_id = $1
			  GROUP BY c.id, c.name, c.type, c.color, c.icon, c.is_default, c.user_id, c.created_at
			  ORDER BY COUNT(t.id) DESC, c.name ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		err := fmt.Errorf("could not query category usage stats: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var stats []UsageStat
	for rows.Next() {
		var s UsageStat
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Type, &s.Color, &s.Icon, &s.IsDefault, &s.UserID, &s.CreatedAt,
			&s.TransactionCount, &s.TotalAmount,
		); err != nil {
			err := fmt.Errorf("could not scan usage stat: %w", err)
			log.Error(err)
			return nil, err
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsDefault, &c.UserID, &c.CreatedAt)
	return c, err
}

func scanCategories(rows *sql.Rows) ([]Category, error) {
	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			err := fmt.Errorf("could not scan category: %w", err)
			log.Error(err)
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}
