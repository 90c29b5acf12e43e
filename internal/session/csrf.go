package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader carries the token in both directions: responses expose it
// and unsafe requests must send it back.
const CSRFTokenHeader = "X-CSRF-Token"

const csrfTokenKey = "csrf_token"

// CSRFMiddleware protects unsafe methods with gorilla/csrf. Safe methods
// pass through and receive a fresh token in the response header.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		r := c.Request
		if !secure {
			r = csrf.PlaintextHTTPRequest(r)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			token := csrf.Token(r)
			c.Set(csrfTokenKey, token)
			c.Header(CSRFTokenHeader, token)
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, r)
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// CSRFToken returns the token set by CSRFMiddleware, if any.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}
