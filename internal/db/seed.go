package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hrdesk/internal/models"
	"hrdesk/internal/utils"
)

type SeedUser struct {
	Name       string
	Email      string
	Password   string
	Role       string
	BaseSalary float64
}

// DefaultSeed is the local development pair of accounts.
var DefaultSeed = []SeedUser{
	{Name: "Local Admin", Email: "admin@local.dev", Password: "Admin123!", Role: models.RoleAdmin, BaseSalary: 6000},
	{Name: "Local Employee", Email: "employee@local.dev", Password: "Employee123!", Role: models.RoleEmployee, BaseSalary: 4000},
}

// Seed creates or refreshes each account, keyed by email.
func Seed(database *gorm.DB, users []SeedUser) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, seed := range users {
			hash, err := utils.HashPassword(seed.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", seed.Email, err)
			}

			var user models.User
			err = tx.Where("email = ?", seed.Email).First(&user).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			user.Name = seed.Name
			user.Email = seed.Email
			user.PasswordHash = hash
			user.Role = seed.Role
			user.BaseSalary = seed.BaseSalary
			if err := tx.Save(&user).Error; err != nil {
				return fmt.Errorf("save %s: %w", seed.Email, err)
			}
		}
		return nil
	})
}
