package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrdesk/internal/hr"
	"hrdesk/internal/middleware"
)

// respondError maps rule rejections onto status codes. Anything that is not a
// rule error is logged and reported as a bare 500.
func respondError(c *gin.Context, err error, action string) {
	switch hr.KindOf(err) {
	case hr.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case hr.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case hr.KindValidation, hr.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case hr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("%s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requireActor(c *gin.Context) (hr.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		respondError(c, hr.ErrUnauthorized, "identity")
		return hr.Actor{}, false
	}
	return actor, true
}

// bindOptionalJSON binds a JSON body, treating an empty body as all fields unset.
func bindOptionalJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return false
	}
	return true
}
