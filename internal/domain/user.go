package domain

import "time"

// Role represents what a user is allowed to do.
// Authentication is external; handlers receive the caller's role pre-verified.
type Role string

const (
	RoleRider  Role = "Rider"
	RoleDriver Role = "Driver"
	RoleAdmin  Role = "Admin"
)

// User represents an account in the system.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
