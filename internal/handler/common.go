package handler

import (
	"net/http"

	"panjarku-backend/pkg/apperror"
	"panjarku-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fail writes the error with the HTTP status carried by the apperror, or 500
func fail(c *gin.Context, err error) {
	code := apperror.StatusOf(err)
	c.JSON(code, response.Error(code, err.Error()))
}

// currentUserID reads the authenticated user id stored by the auth middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// currentRoles reads the role names stored by the auth middleware
func currentRoles(c *gin.Context) []string {
	raw, exists := c.Get("userRoles")
	if !exists {
		return nil
	}
	roles, _ := raw.([]string)
	return roles
}

// mustUserID aborts with 401 when the context carries no usable user id
func mustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
	}
	return id, ok
}
