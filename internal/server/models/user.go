// Package models defines server-side data models persisted in the database.
package models

import "time"

// UserRole is the stored role of a user account.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// ParseUserRole returns the UserRole matching s, or false if s is not a
// known role.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
