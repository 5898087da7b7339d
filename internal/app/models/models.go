package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleStartup RoleType = "STARTUP"
	RoleAdmin   RoleType = "ADMIN"
)

// IsValid reports whether the role is one of the known roles
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleStartup, RoleAdmin:
		return true
	}
	return false
}
