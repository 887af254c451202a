// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/yoga_blog_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  5 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
		now:            time.Now,
	}

	// PIN checks are strict to keep the 10,000 possible PINs out of reach
	limiter.SetEndpointLimit("/api/admin/verify-pin", rate.Every(2*time.Second), 5)
	limiter.SetEndpointLimit("/api/admin/posts", rate.Every(time.Second), 10)
	limiter.SetEndpointLimit("/api/admin/posts/:id", rate.Every(time.Second), 10)
	limiter.SetEndpointLimit("/api/admin/media", rate.Every(time.Second), 20)

	// Every contact submission sends two emails
	limiter.SetEndpointLimit("/api/contact", rate.Every(10*time.Second), 3)

	return limiter
}

// SetEndpointLimit overrides the default limit for a route path (as registered, e.g. "/api/posts/:id")
func (r *RateLimiter) SetEndpointLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
}

// Cleanup drops expired blocks every interval until stop is closed
func (r *RateLimiter) Cleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.cleanupBlockedIPs()
		case <-stop:
			return
		}
	}
}

func (r *RateLimiter) cleanupBlockedIPs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			delete(r.blockedIPs, ip)
			for key := range r.ips {
				if strings.HasPrefix(key, ip+"|") {
					delete(r.ips, key)
				}
			}
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Media files are served without limits
			if strings.HasPrefix(c.Request().URL.Path, "/uploads/") {
				return next(c)
			}

			ip := c.RealIP()
			path := c.Path()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if r.now().Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, blockUntil, "IP address blocked due to too many requests")
				}
				delete(r.blockedIPs, ip)
			}

			limit, burst := r.defaultLimit, r.defaultBurst
			key := ip + "|*"
			if el, exists := r.endpointLimits[path]; exists {
				limit, burst = el.limit, el.burst
				key = ip + "|" + path
			}
			limiter, exists := r.ips[key]
			if !exists {
				limiter = rate.NewLimiter(limit, burst)
				r.ips[key] = limiter
			}

			if !limiter.AllowN(r.now(), 1) {
				blockUntil := r.now().Add(r.blockDuration)
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()
				return tooManyRequests(c, blockUntil, "Too many requests")
			}
			r.mu.Unlock()

			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, retryAfter time.Time, message string) error {
	c.Response().Header().Set("Retry-After", retryAfter.UTC().Format(http.TimeFormat))
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: message,
		Data:    map[string]string{"retryAfter": retryAfter.Format(time.RFC3339)},
	})
}
