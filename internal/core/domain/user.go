package domain

import "time"

// Role is the closed set of actor roles issued by the tournament API.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleLeague     Role = "league"
	RoleTeam       Role = "team"
	RoleOfficial   Role = "official"
)

// Known reports whether the role belongs to the closed set.
func (r Role) Known() bool {
	switch r {
	case RoleSuperadmin, RoleLeague, RoleTeam, RoleOfficial:
		return true
	}
	return false
}

// User models the authenticated operator, reconstructed from token claims at
// login time and cached for cold-start rehydration.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
