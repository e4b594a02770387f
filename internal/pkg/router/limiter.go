package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/perkfox/perkfox/internal/pkg/cache"
	"github.com/perkfox/perkfox/internal/pkg/env"
)

// newAPILimiter builds the rate limiter backing the public API group. Counters
// live in Redis (database 1, cache uses DB 0) so limits hold across instances.
func newAPILimiter(max int, window time.Duration) fiber.Handler {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	storage := redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
	})
}
