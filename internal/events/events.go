package events

// TransactionChanged is published after every transaction create, update, or
// delete. CategoryIDs lists every category whose derived aggregates may have
// moved: one entry normally, two when an update moved the transaction between
// categories.
type TransactionChanged struct {
	UserID      string
	CategoryIDs []string
}

const TransactionChangedEvent EventType = "transaction.changed"
