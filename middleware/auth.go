package middleware

import (
	"strings"

	"codereview/errors"
	"codereview/response"
	"codereview/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware authenticates the bearer token and, when roles are given,
// rejects callers whose role is not in the allow-list. A role mismatch is a
// 403, never an empty result.
func AuthMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, userRole, err := services.GetUserIDFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == userRole {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		c.Set("userID", userID)
		c.Set("userRole", userRole)
		c.Next()
	}
}

// ErrorHandler maps errors attached to the context into responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			if appErr := errors.GetAppError(err); appErr != nil {
				response.Error(c, 0, appErr.Message)
				return
			}

			response.ServerError(c)
		}
	}
}

// CurrentUser returns the authenticated user's id and role from the context.
func CurrentUser(c *gin.Context) (uint, int, bool) {
	userID, okID := c.Get("userID")
	userRole, okRole := c.Get("userRole")
	if !okID || !okRole {
		return 0, 0, false
	}
	return userID.(uint), userRole.(int), true
}
