// Package models defines the data structures that map to database tables
// and fixture documents, and the core types used throughout the application.
package models

// Role is the permission level carried in a session issued by the external
// auth provider.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
)

// CanEdit returns true for roles allowed into the editorial admin API.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleEditor
}

// IsAdmin returns true for the top role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
