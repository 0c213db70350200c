package redisdb

import (
	"github.com/redis/go-redis/v9"

	"loantrack/internal/config"
)

// NewClient builds a redis client from config. Returns nil when no address is
// configured; callers treat a nil client as "sessions disabled".
func NewClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
