package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the number of requests allowed per Window, also the burst size
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
	// IdleTTL drops the limiter of a key unseen for this long (defaults to 10 windows)
	IdleTTL time.Duration
}

// clientLimiter is the token bucket of one key
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-endpoint, per-key token bucket limiter
type RateLimiter struct {
	config RateLimitConfig
	store  map[string]*clientLimiter
	mu     sync.Mutex
	stop   chan struct{}
	once   sync.Once
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}
	if config.Requests <= 0 {
		config.Requests = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * config.Window
	}

	rl := &RateLimiter{
		config: config,
		store:  make(map[string]*clientLimiter),
		stop:   make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(rl.config.KeyFunc(c)) {
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// Allow reports whether a request for key may proceed now
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.store[key]
	if !ok {
		every := rl.config.Window / time.Duration(rl.config.Requests)
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Every(every), rl.config.Requests)}
		rl.store[key] = entry
	}
	entry.lastSeen = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// cleanup removes idle keys every window
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.Window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, entry := range rl.store {
				if time.Since(entry.lastSeen) > rl.config.IdleTTL {
					delete(rl.store, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// NewRefreshRateLimiter limits manual refreshes to 6 per minute per IP
func NewRefreshRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 6,
		Window:   1 * time.Minute,
		Message:  "Too many refresh requests. The dashboard also refreshes on its own.",
	})
}
