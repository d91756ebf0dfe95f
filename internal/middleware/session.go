package middleware

import (
	"net/http"

	"todo-planner/internal/session"

	"github.com/gin-gonic/gin"
)

// Session loads the signed-in identity from the session cookie, if any,
// and makes it available through session.FromContext.
func Session(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := manager.Load(c); ok {
			session.WithIdentity(c, id)
		}
		c.Next()
	}
}

// RequireSession sends anonymous visitors back to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.FromContext(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
