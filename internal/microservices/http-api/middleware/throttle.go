package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"commentshub/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Throttler hands out one token bucket per client IP. Idle buckets are dropped
// after ten minutes.
type Throttler struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

func NewThrottler(rps float64, burst, maxClients int) *Throttler {
	if maxClients <= 0 {
		maxClients = 10000
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttler{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, 10*time.Minute),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (t *Throttler) limiter(client string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.limiters.Get(client); ok {
		return l
	}
	l := rate.NewLimiter(t.rps, t.burst)
	t.limiters.Add(client, l)
	return l
}

// Middleware rejects requests beyond the client's budget with 429.
func (t *Throttler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if t.rps <= 0 {
			c.Next()
			return
		}

		r := t.limiter(c.ClientIP()).Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			AbortWithError(c, http.StatusTooManyRequests, dto.MsgThrottled, dto.CodeThrottled)
			return
		}
		c.Next()
	}
}
