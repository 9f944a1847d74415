package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns an Echo middleware enforcing a fixed window of
// `limit` requests per `window` per client.  Requests are counted in
// Redis keyed by client IP, user identity (when authenticated) and
// route, so one user hammering the checkout endpoint cannot starve
// seat-map reads for everyone behind the same NAT.
//
// With a nil Redis client the middleware is a no-op, consistent with
// how the rest of the application degrades without Redis.  Redis
// errors also fail open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	if window <= 0 {
		window = time.Minute
	}
	if window < time.Second {
		// bucket math works in whole seconds
		window = time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(c, window)
			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				retry := int(window / time.Second)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}

// rateKey buckets counters by window so stale keys age out naturally.
func rateKey(c echo.Context, window time.Duration) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := "anon"
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		uid = v
	}
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	bucket := time.Now().Unix() / secs
	return "rl:" + ip + ":" + uid + ":" + c.Request().Method + ":" + c.Path() + ":" + strconv.FormatInt(bucket, 10)
}
