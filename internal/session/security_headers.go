package session

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware adds security headers to all responses. Covers
// may be remote images or data URIs, so img-src allows both.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"font-src 'self'; "+
				"connect-src 'self'; "+
				"frame-ancestors 'none'; "+
				"form-action 'self'")

		c.Header("Permissions-Policy",
			"camera=(), geolocation=(), microphone=(), payment=(), usb=()")

		c.Next()
	}
}

// StrictTransportSecurityMiddleware sets HSTS on requests that arrived over
// HTTPS, directly or through a proxy.
func StrictTransportSecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
