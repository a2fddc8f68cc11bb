package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// Streak fields are mutated only by the streak engine; every update
// keeps HighestStreak >= CurrentStreak.
type User struct {
	ID            string
	Email         string
	Password      string
	Name          string
	CurrentStreak int
	HighestStreak int
	// LastCompleted is the most recent UTC calendar day on which the
	// user finished every todo dated that day. Nil until the first
	// fully completed day.
	LastCompleted *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StreakState is the slice of User the streak engine reads and writes.
type StreakState struct {
	Current       int
	Highest       int
	LastCompleted *time.Time
}

// Streak returns the user's streak fields as a StreakState.
func (u *User) Streak() StreakState {
	return StreakState{Current: u.CurrentStreak, Highest: u.HighestStreak, LastCompleted: u.LastCompleted}
}
