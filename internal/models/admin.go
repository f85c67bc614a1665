package models

import "time"

// Role names an access level stored on admin profiles.
type Role string

// RoleAdmin is the only role allowed into the admin API.
const RoleAdmin Role = "admin"

// AdminProfile is an account allowed to manage content.
type AdminProfile struct {
	ID           int64      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	Role         Role       `db:"role" json:"role"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AdminInfo describes the authenticated admin in responses.
type AdminInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Info strips credentials from the profile.
func (a *AdminProfile) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}
}
