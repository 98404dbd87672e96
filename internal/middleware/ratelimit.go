package middleware

import (
	"sync"
	"time"

	"anoa.com/recruitportal/pkg/apperror"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	log      logrus.FieldLogger
}

// NewRateLimiter allows perMinute requests per client with a burst of the
// same size. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int, log logrus.FieldLogger) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     limit,
		burst:    max(perMinute, 1),
		log:      log,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= maxTrackedClients {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.getLimiter(key).Allow() {
			rl.log.WithFields(logrus.Fields{
				"client_ip": key,
				"path":      c.Request.URL.Path,
			}).Warn("rate limit exceeded")
			response.AbortWithError(c, apperror.New(apperror.KindRateLimited, i18n.RequestTooMany, nil))
			return
		}
		c.Next()
	}
}
