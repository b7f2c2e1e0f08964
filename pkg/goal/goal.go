package goal

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Goal is a savings target with a manually incremented progress counter.
// IsCompleted is derived: it holds exactly when CurrentAmount has reached
// TargetAmount, and is re-derived on every write that touches CurrentAmount.
type Goal struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    time.Time
	Priority      Priority
	IsCompleted   bool
	CreatedAt     time.Time
}

// Patch enumerates the fields an update may change; nil leaves a field as is.
type Patch struct {
	Title         *string
	Description   *string
	TargetAmount  *float64
	CurrentAmount *float64
	TargetDate    *time.Time
	Priority      *Priority
}
