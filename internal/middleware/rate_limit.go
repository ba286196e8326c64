package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// Записи о клиентах, не появлявшихся дольше этого срока, удаляются
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit ограничивает частоту запросов с одного IP (token bucket)
func RateLimit(limit rate.Limit, burst int) fiber.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*ipLimiter)
		lastGC   = time.Now()
	)

	return func(c fiber.Ctx) error {
		now := time.Now()
		ip := c.IP()

		mu.Lock()
		if now.Sub(lastGC) > limiterIdleTTL {
			for key, l := range limiters {
				if now.Sub(l.lastSeen) > limiterIdleTTL {
					delete(limiters, key)
				}
			}
			lastGC = now
		}
		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(limit, burst)}
			limiters[ip] = l
		}
		l.lastSeen = now
		allowed := l.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "Demasiadas solicitudes, inténtalo más tarde")
		}
		return c.Next()
	}
}

// PublicWrite ограничивает анонимные операции записи (предложения, комментарии)
func PublicWrite() fiber.Handler {
	return RateLimit(rate.Every(3*time.Second), 20)
}
