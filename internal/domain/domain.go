package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups transactions. Identity is ID; Name may be renamed in place.
type Category struct {
	ID   string
	Name string
}

// Uncategorized is the sentinel category attached to transactions committed
// without an explicit selection. It is never persisted to the categories table.
func Uncategorized() Category {
	return Category{Name: "Uncategorized"}
}

// Transaction is a single committed expense. AmountCents holds the amount in
// currency base units.
type Transaction struct {
	ID          string
	AmountCents int64
	CreatedAt   time.Time
	Category    Category
	Comment     string
}

func NewID() string {
	return uuid.NewString()
}
