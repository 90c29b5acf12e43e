package session

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// UploadLimiter locks out clients that keep sending files the library
// rejects. Failures are counted per client IP inside a window; a successful
// upload clears the count.
type UploadLimiter struct {
	mu          sync.RWMutex
	clients     map[string]*failureRecord
	maxFailures int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
}

type failureRecord struct {
	count       int
	first       time.Time
	lockedUntil time.Time
}

type UploadLimitConfig struct {
	MaxFailures     int           // default 10
	Window          time.Duration // default 10m
	Lockout         time.Duration // default 15m
	CleanupInterval time.Duration // default 5m
}

func NewUploadLimiter(cfg UploadLimitConfig) *UploadLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = 10 * time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 15 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &UploadLimiter{
		clients:     make(map[string]*failureRecord),
		maxFailures: cfg.MaxFailures,
		window:      cfg.Window,
		lockout:     cfg.Lockout,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go l.cleanupLoop(cfg.CleanupInterval)
	return l
}

// Stop ends the background cleanup.
func (l *UploadLimiter) Stop() {
	close(l.stopCleanup)
}

// Allow reports whether ip may upload, and if not, for how long it is locked out.
func (l *UploadLimiter) Allow(ip string) (bool, time.Duration) {
	now := l.now()

	l.mu.RLock()
	defer l.mu.RUnlock()

	record, ok := l.clients[ip]
	if !ok {
		return true, 0
	}
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a rejected upload and reports whether ip is now locked out.
func (l *UploadLimiter) RecordFailure(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.clients[ip]
	if !ok || now.Sub(record.first) > l.window {
		record = &failureRecord{first: now}
		l.clients[ip] = record
	}

	record.count++
	if record.count >= l.maxFailures {
		record.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

func (l *UploadLimiter) RecordSuccess(ip string) {
	l.mu.Lock()
	delete(l.clients, ip)
	l.mu.Unlock()
}

func (l *UploadLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *UploadLimiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, record := range l.clients {
		if now.Sub(record.first) > l.window && !now.Before(record.lockedUntil) {
			delete(l.clients, ip)
		}
	}
}

// Middleware rejects locked-out clients with 429 and records the outcome of
// every upload that gets through. Client errors count as failures; server
// errors are not the client's fault and are ignored.
func (l *UploadLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if ok, retryAfter := l.Allow(ip); !ok {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many rejected uploads",
				"retry_after": retryAfter.Round(time.Second).String(),
			})
			return
		}

		c.Next()

		switch status := c.Writer.Status(); {
		case status < 300:
			l.RecordSuccess(ip)
		case status >= 400 && status < 500:
			l.RecordFailure(ip)
		}
	}
}
