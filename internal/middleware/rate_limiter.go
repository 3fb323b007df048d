package middleware

import (
	"net/http"

	"malutoficina/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. rate uses the limiter format
// ("600-M", "10-S"). Counters live in Redis so every replica shares them;
// without Redis they fall back to process memory.
func RateLimiter(rdb *redis.Client, rate, prefix, msg string) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "ratelimit:" + prefix})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix})
	}

	return mgin.NewMiddleware(limiter.New(store, r),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// a broken store must not take the API down
			log.Warn().Err(err).Str("limiter", prefix).Msg("rate limiter store error, letting request through")
			c.Next()
		}),
	), nil
}
