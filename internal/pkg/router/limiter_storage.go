package router

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/RAAS/internal/pkg/cache"
	"github.com/ManuelReschke/RAAS/internal/pkg/env"
)

// NewLimiterStorage shares rate limiter counters through Redis when the cache is
// reachable. It returns nil otherwise, which makes the limiter count in memory.
func NewLimiterStorage() fiber.Storage {
	if !cache.IsAvailable() {
		log.Warnf("[Router] Redis unavailable, rate limiter counts per instance")
		return nil
	}

	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	if h, p, err := net.SplitHostPort(cacheClient.Options().Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: cacheClient.Options().Password,
		Database: env.GetEnvInt("CACHE_LIMITER_DB", 2),
		Reset:    false,
	})
}
