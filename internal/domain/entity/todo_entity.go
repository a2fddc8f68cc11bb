package entity

import (
	"time"
)

// Todo is a single task belonging to one user and one calendar day.
// Date is fixed at creation (the UTC day the todo was created) and is
// the grouping key for streak evaluation.
type Todo struct {
	ID        string
	UserID    string
	Title     string
	Completed bool
	Deadline  *time.Time
	Date      time.Time // UTC midnight
	CreatedAt time.Time
}
