package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrdesk/internal/hr"
	"hrdesk/internal/models"
	"hrdesk/internal/utils"
)

type UserHandler struct {
	DB *gorm.DB
}

type createUserRequest struct {
	Name       string  `json:"name" binding:"required,min=2"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Role       string  `json:"role"`
	BaseSalary float64 `json:"baseSalary"`
}

type updateUserRequest struct {
	Role       *string  `json:"role"`
	BaseSalary *float64 `json:"baseSalary"`
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("name asc").Find(&users).Error; err != nil {
		respondError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := hr.RequireAdmin(actor); err != nil {
		respondError(c, err, "create user")
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	role, err := hr.NormalizeRole(req.Role)
	if err != nil {
		respondError(c, err, "create user")
		return
	}
	if err := hr.ValidateSalary(req.BaseSalary); err != nil {
		respondError(c, err, "create user")
		return
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := h.DB.Where("email = ?", normalizedEmail).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err, "create user")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizedEmail,
		PasswordHash: passwordHash,
		Role:         role,
		BaseSalary:   req.BaseSalary,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		respondError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Update changes role and/or base salary; other fields are not editable here.
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	var existing *models.User
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		var user models.User
		err := h.DB.First(&user, "id = ?", id).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, err, "update user")
			return
		}
		if err == nil {
			existing = &user
		}
	}

	updated, err := hr.UpdateUser(actor, existing, req.Role, req.BaseSalary)
	if err != nil {
		respondError(c, err, "update user")
		return
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", updated.ID).
		Updates(map[string]any{"role": updated.Role, "base_salary": updated.BaseSalary}).Error; err != nil {
		respondError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, updated)
}
