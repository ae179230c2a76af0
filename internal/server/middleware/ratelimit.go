package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const idleClientTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles inbound requests per client IP. It protects the
// provider quota; outbound spacing is handled separately by the gateway.
type RateLimiter struct {
	clients map[string]*client
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	logger  *zap.Logger
	now     func() time.Time
}

func NewRateLimiter(rps float64, burst int, logger *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if cl, ok := rl.clients[ip]; ok {
		cl.lastSeen = now
		return cl.limiter
	}

	for k, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > idleClientTTL {
			delete(rl.clients, k)
		}
	}

	l := rate.NewLimiter(rl.rps, rl.burst)
	rl.clients[ip] = &client{limiter: l, lastSeen: now}
	return l
}

// Len reports how many clients are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !rl.getLimiter(ip).Allow() {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)
			wait := int(math.Ceil(1 / float64(rl.rps)))
			c.Header("Retry-After", strconv.Itoa(max(wait, 1)))
			_ = c.Error(api.TooManyRequests("Too many requests, slow down"))
			c.Abort()
			return
		}

		c.Next()
	}
}
