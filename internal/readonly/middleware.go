// Package readonly serves a library that visitors can browse but not change.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware blocks requests that would change the library while read-only
// mode is on. Safe methods always pass; so do paths that only touch the
// visitor's own session.
type Middleware struct {
	enabled bool
}

func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "the library is read-only",
			"read_only": true,
		})
	}
}

// isAllowedPath lists the write paths that never modify library state.
func isAllowedPath(path string) bool {
	allowedPaths := []string{
		"/api/session/",
	}

	for _, allowed := range allowedPaths {
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}

// ContextKeyReadOnly marks the request context so handlers can adapt responses.
const ContextKeyReadOnly = "read_only"

func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)
		c.Next()
	}
}
