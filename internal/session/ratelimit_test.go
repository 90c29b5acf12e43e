package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestLimiter(maxFailures int) *UploadLimiter {
	return NewUploadLimiter(UploadLimitConfig{
		MaxFailures:     maxFailures,
		Window:          time.Minute,
		Lockout:         time.Minute,
		CleanupInterval: time.Hour, // long interval to prevent cleanup during test
	})
}

func TestUploadLimiter_LocksOutAfterFailures(t *testing.T) {
	l := newTestLimiter(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if allowed, _ := l.Allow("192.168.1.1"); !allowed {
			t.Errorf("Upload %d should be allowed", i+1)
		}
		l.RecordFailure("192.168.1.1")
	}

	allowed, retryAfter := l.Allow("192.168.1.1")
	if allowed {
		t.Error("4th upload should be blocked")
	}
	if retryAfter == 0 {
		t.Error("retryAfter should be non-zero when blocked")
	}

	if allowed, _ := l.Allow("192.168.1.2"); !allowed {
		t.Error("Other clients should not be affected")
	}
}

func TestUploadLimiter_SuccessResetsCounter(t *testing.T) {
	l := newTestLimiter(3)
	defer l.Stop()

	l.RecordFailure("192.168.1.1")
	l.RecordFailure("192.168.1.1")
	l.RecordSuccess("192.168.1.1")
	l.RecordFailure("192.168.1.1")

	if allowed, _ := l.Allow("192.168.1.1"); !allowed {
		t.Error("Should be allowed after a successful upload")
	}
}

func TestUploadLimiter_WindowExpires(t *testing.T) {
	l := newTestLimiter(2)
	defer l.Stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.RecordFailure("10.0.0.1")
	now = now.Add(2 * time.Minute)
	if locked := l.RecordFailure("10.0.0.1"); locked {
		t.Error("Failures outside the window should not add up")
	}

	l.RecordFailure("10.0.0.1")
	if allowed, _ := l.Allow("10.0.0.1"); allowed {
		t.Error("Expected lockout")
	}

	now = now.Add(2 * time.Minute)
	if allowed, _ := l.Allow("10.0.0.1"); !allowed {
		t.Error("Lockout should expire")
	}
	l.cleanup()
	if len(l.clients) != 0 {
		t.Errorf("Expected expired records to be removed, got %d", len(l.clients))
	}
}

func TestUploadLimiter_Middleware(t *testing.T) {
	l := newTestLimiter(2)
	defer l.Stop()

	router := gin.New()
	router.POST("/upload", l.Middleware(), func(c *gin.Context) {
		if c.Query("ok") == "1" {
			c.Status(http.StatusCreated)
			return
		}
		c.Status(http.StatusBadRequest)
	})

	post := func(query string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload"+query, nil)
		req.RemoteAddr = "192.0.2.1:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(""); code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", code)
	}
	if code := post("?ok=1"); code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", code)
	}
	post("")
	post("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload?ok=1", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
}
