package domain

import (
	"crypto/subtle"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleStudent   Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDeveloper, RoleStudent:
		return true
	}
	return false
}

// Global reports whether principals of this role live outside any class.
func (r Role) Global() bool {
	return r == RoleAdmin || r == RoleDeveloper
}

// CanManageClasses covers class creation, enrollment, credits and order decisions.
func (r Role) CanManageClasses() bool { return r == RoleAdmin }

// CanExport covers the developer artifact archive.
func (r Role) CanExport() bool { return r == RoleDeveloper }

// CanTrade covers savings deposits, purchases and the dashboard.
func (r Role) CanTrade() bool { return r == RoleStudent }

// Identity is what a caller keeps in its session after authenticating.
// Class is empty for global principals.
type Identity struct {
	Class    string `json:"class,omitempty"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Principal is anything that can log in: a global User or a Student.
type Principal interface {
	Identity() Identity
	CheckCredential(credential string) bool
}

// User is a global principal (admin or developer).
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

var _ Principal = (*User)(nil)

func (u *User) Identity() Identity {
	return Identity{Username: u.Username, Role: u.Role}
}

func (u *User) CheckCredential(credential string) bool {
	return credentialsMatch(u.Password, credential)
}

func credentialsMatch(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// Session is an issued bearer token and the identity it carries.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"identity"`
}
