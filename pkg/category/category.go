package category

import "time"

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ValidType reports whether t is one of the two known category types.
func ValidType(t Type) bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is a spending or income label. Default categories are visible to
// every user and carry no owner; user categories are visible to their owner
// only.
type Category struct {
	ID        string
	Name      string
	Type      Type
	Color     string
	Icon      string
	IsDefault bool
	UserID    string
	CreatedAt time.Time
}

// UsageStat is the per-category transaction rollup for one user.
type UsageStat struct {
	Category
	TransactionCount int
	TotalAmount      float64
}

// Patch enumerates the fields a category update may change. Nil means leave
// unchanged. The type of a category is fixed at creation.
type Patch struct {
	Name  *string
	Color *string
	Icon  *string
}
