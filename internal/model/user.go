package model

import (
	"errors"
	"time"
)

// User represents an operator account (separate from attendees).
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Group        string     `json:"group"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Operator groups.
const (
	GroupAdmin    = "admin"
	GroupOperator = "operator"
)

// GroupAtLeast checks if group meets or exceeds the minimum required group.
func GroupAtLeast(group, minimum string) bool {
	levels := map[string]int{
		GroupAdmin:    2,
		GroupOperator: 1,
	}
	return levels[group] >= levels[minimum]
}

// ValidatePassword enforces the minimum password policy for operator
// accounts.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// Attendee maps a badge number to a display name.
type Attendee struct {
	RegID int    `json:"reg_id"`
	Name  string `json:"name"`
}
