package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redisClient *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redisClient: client}
}

// limitKey: для залогиненного пользователя лимит считается по userId,
// иначе студенты за общим NAT-ом резали бы друг друга. Без userId
// (роут до AuthMiddleware) остается IP.
func limitKey(c *gin.Context, suffix string) string {
	if userID := c.GetString("userId"); userID != "" {
		return fmt.Sprintf("rate_limit:%s:user:%s", suffix, userID)
	}
	return fmt.Sprintf("rate_limit:%s:ip:%s", suffix, c.ClientIP())
}

func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := limitKey(c, keySuffix)

		count, err := rl.redisClient.Incr(c, key).Result()
		if err != nil {
			// Redis лег - пропускаем, лимитер не должен класть API
			c.Next()
			return
		}

		// Первый запрос в окне - ставим TTL ключу
		if count == 1 {
			rl.redisClient.Expire(c, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.redisClient.TTL(c, key).Result()

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%.0f minutes", ttl.Minutes()),
			})
			return
		}
		c.Next()
	}
}
