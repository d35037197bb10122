package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleUser     UserRole = "user"
	RolePharmacy UserRole = "pharmacy"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Address      *string  `db:"address"`
	Role         UserRole `db:"role"`
	IsVerified   bool     `db:"is_verified"`
}

// RecentSearch is one entry of a user's search history, recorded when an
// authenticated user runs a medicine search.
type RecentSearch struct {
	BaseSimple
	UserID   uuid.UUID `db:"user_id"`
	Medicine string    `db:"medicine"`
	Location *string   `db:"location"`
}
