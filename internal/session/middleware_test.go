package session

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter() *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	router.POST("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGETAndExposesToken(t *testing.T) {
	rr := httptest.NewRecorder()
	csrfRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for GET request, got %d", rr.Code)
	}
	if rr.Header().Get(CSRFTokenHeader) == "" {
		t.Error("Expected CSRF token header on GET response")
	}
	if rr.Body.String() != rr.Header().Get(CSRFTokenHeader) {
		t.Error("Expected token in context to match header")
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	rr := httptest.NewRecorder()
	csrfRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/test", nil))

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without token, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_AllowsPOSTWithToken(t *testing.T) {
	router := csrfRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	token := rr.Header().Get(CSRFTokenHeader)
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected CSRF cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set(CSRFTokenHeader, token)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for POST with token, got %d", rr.Code)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("Expected Content-Security-Policy header")
	}
}

func TestStrictTransportSecurityMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should not be set over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS should be set over HTTPS")
	}
}
