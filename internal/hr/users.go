package hr

import (
	"strings"

	"hrdesk/internal/models"
)

// NormalizeRole upper-cases a role name; empty means EMPLOYEE.
func NormalizeRole(value string) (string, error) {
	role := strings.ToUpper(strings.TrimSpace(value))
	switch role {
	case "":
		return models.RoleEmployee, nil
	case models.RoleAdmin, models.RoleEmployee:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

func ValidateSalary(amount float64) error {
	if amount < 0 {
		return ErrInvalidSalary
	}
	return nil
}

// UpdateUser applies an admin change of role and/or base salary. Nil fields
// are left as they are.
func UpdateUser(actor Actor, existing *models.User, role *string, baseSalary *float64) (models.User, error) {
	if err := RequireAdmin(actor); err != nil {
		return models.User{}, err
	}
	if existing == nil {
		return models.User{}, ErrUserNotFound
	}

	updated := *existing
	if role != nil {
		normalized, err := NormalizeRole(*role)
		if err != nil {
			return models.User{}, err
		}
		updated.Role = normalized
	}
	if baseSalary != nil {
		if err := ValidateSalary(*baseSalary); err != nil {
			return models.User{}, err
		}
		updated.BaseSalary = roundCents(*baseSalary)
	}
	return updated, nil
}
