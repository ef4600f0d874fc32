package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tollnotify/tollnotify-app/utils"
)

// AdminOnly harus dipasang setelah AuthMiddleware
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != utils.RoleAdmin {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("admin privileges required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
