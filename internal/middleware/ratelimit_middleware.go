package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/utils"
)

// OTPAttemptLimiter caps OTP verification attempts per shop and client IP
// within a sliding window.
type OTPAttemptLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptInfo
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewOTPAttemptLimiter creates a limiter and starts its cleanup loop.
// Call Stop to release it.
func NewOTPAttemptLimiter(maxAttempts int, window time.Duration) *OTPAttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &OTPAttemptLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go rl.cleanup(5 * window)
	return rl
}

// Allow records an attempt for key and reports whether it is within the limit.
func (r *OTPAttemptLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[key]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[key] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.maxAttempts {
		return false
	}
	info.count++
	return true
}

// Reset forgets all attempts for key.
func (r *OTPAttemptLimiter) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, key)
}

// Middleware rejects verification requests over the limit with 429.
// The key is the shop id path parameter plus the client IP. A successful
// verification clears the key.
func (r *OTPAttemptLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := AttemptKey(c.Param("id"), c.ClientIP())
		if !r.Allow(key) {
			log.Warn().Str("shop_id", c.Param("id")).Str("ip", c.ClientIP()).Msg("OTP attempt limit reached")
			utils.Error(c, http.StatusTooManyRequests, utils.ErrTooManyAttempts.Error(), "Too many verification attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
		if c.Writer.Status() == http.StatusOK {
			r.Reset(key)
		}
	}
}

// AttemptKey builds the limiter key for a shop and client.
func AttemptKey(shopID, ip string) string {
	return shopID + "|" + ip
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (r *OTPAttemptLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *OTPAttemptLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for key, info := range r.attempts {
				if now.Sub(info.firstAt) > r.window {
					delete(r.attempts, key)
				}
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}
