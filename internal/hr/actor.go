// Package hr holds the attendance, leave and payroll decision rules. Nothing
// here touches storage or HTTP: callers pass in the current persisted state
// and apply whatever record comes back.
package hr

import (
	"github.com/google/uuid"

	"hrdesk/internal/models"
)

// Actor is the authenticated identity a rule is evaluated for.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// RequireAdmin rejects any actor that is not an ADMIN.
func RequireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
