package service

import "github.com/noah-isme/daily-coding-api/internal/models"

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID    uint
	Role  string
	Email string
	Name  string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// HasRole reports whether the actor holds one of roles.
func (a Actor) HasRole(roles ...string) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}

func actorFromUser(user models.User) Actor {
	return Actor{ID: user.ID, Role: user.Role, Email: user.Email, Name: user.Name}
}
