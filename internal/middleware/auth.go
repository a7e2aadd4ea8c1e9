package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"hrdesk/internal/hr"
	"hrdesk/internal/utils"
)

const (
	ContextUserID = "userId"
	ContextRole   = "role"

	SessionName       = "hrdesk-session"
	SessionKeyUserID  = "user_id"
	SessionKeyRole    = "role"
	sessionMaxAgeHour = 60 * 60
)

// NewSessionStore builds the cookie store used for browser sessions.
func NewSessionStore(secret string, maxAgeHours int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeHours * sessionMaxAgeHour,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// AuthRequired accepts a Bearer access token or, failing that, a session
// cookie, and puts the identity on the context.
func AuthRequired(secret string, store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization"})
				return
			}

			claims, err := utils.ParseAccessToken(parts[1], secret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}

			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextRole, claims.Role)
			c.Next()
			return
		}

		if store != nil {
			if session, err := store.Get(c.Request, SessionName); err == nil {
				userID, _ := session.Values[SessionKeyUserID].(string)
				role, _ := session.Values[SessionKeyRole].(string)
				if userID != "" && role != "" {
					c.Set(ContextUserID, userID)
					c.Set(ContextRole, role)
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get(ContextRole)
		if current != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentActor reads the identity AuthRequired stored on the context.
func CurrentActor(c *gin.Context) (hr.Actor, bool) {
	rawID, ok := c.Get(ContextUserID)
	if !ok {
		return hr.Actor{}, false
	}
	idString, _ := rawID.(string)
	userID, err := uuid.Parse(idString)
	if err != nil {
		return hr.Actor{}, false
	}
	role, _ := c.Get(ContextRole)
	roleString, _ := role.(string)
	return hr.Actor{UserID: userID, Role: roleString}, true
}
