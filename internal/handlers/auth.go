package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"hrdesk/internal/config"
	"hrdesk/internal/hr"
	"hrdesk/internal/middleware"
	"hrdesk/internal/models"
	"hrdesk/internal/utils"
)

type AuthHandler struct {
	DB       *gorm.DB
	Cfg      config.Config
	Sessions sessions.Store
	Now      func() time.Time
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func NewAuthHandler(db *gorm.DB, cfg config.Config, store sessions.Store, now func() time.Time) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Sessions: store, Now: now}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	accessToken, refreshToken, err := h.issueTokens(user.ID, user.Role)
	if err != nil {
		respondError(c, err, "issue tokens")
		return
	}

	if err := h.saveSession(c, user); err != nil {
		respondError(c, err, "save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	now := h.Now()
	var token models.RefreshToken
	if err := h.DB.Where("token = ?", req.RefreshToken).First(&token).Error; err != nil || !token.Active(now) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", token.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.String(), user.Role, h.Cfg.JwtSecret, h.Cfg.JwtAccessMinutes)
	if err != nil {
		respondError(c, err, "issue access token")
		return
	}

	if err := h.DB.Model(&token).Update("last_used_at", now).Error; err != nil {
		log.Printf("refresh token touch: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout revokes the given refresh token, if any, and expires the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	if req.RefreshToken != "" {
		if err := h.DB.Model(&models.RefreshToken{}).
			Where("token = ? AND revoked_at IS NULL", req.RefreshToken).
			Update("revoked_at", h.Now()).Error; err != nil {
			respondError(c, err, "revoke refresh token")
			return
		}
	}

	session, _ := h.Sessions.Get(c.Request, middleware.SessionName)
	if session.Options == nil {
		session.Options = &sessions.Options{Path: "/"}
	}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("clear session: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", actor.UserID).Error; err != nil {
		respondError(c, hr.ErrUnauthorized, "me")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) saveSession(c *gin.Context, user models.User) error {
	session, _ := h.Sessions.Get(c.Request, middleware.SessionName)
	session.Values[middleware.SessionKeyUserID] = user.ID.String()
	session.Values[middleware.SessionKeyRole] = user.Role
	return session.Save(c.Request, c.Writer)
}

func (h *AuthHandler) issueTokens(userID uuid.UUID, role string) (string, string, error) {
	accessToken, err := utils.GenerateAccessToken(userID.String(), role, h.Cfg.JwtSecret, h.Cfg.JwtAccessMinutes)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return "", "", err
	}

	expiresAt := h.Now().Add(time.Duration(h.Cfg.JwtRefreshHours) * time.Hour)
	if err := h.DB.Create(&models.RefreshToken{
		UserID:    userID,
		Token:     refreshToken,
		ExpiresAt: expiresAt,
	}).Error; err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
