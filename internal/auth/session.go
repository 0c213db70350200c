package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "session:%s"

// Sessions are an optional revocation layer on top of the stateless token:
// when redis is configured, logout deletes the session and the middleware
// rejects tokens without one. All helpers are no-ops on a nil client.

func SetSession(rdb *redis.Client, userID, token string, duration time.Duration) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf(sessionKeyFmt, userID)
	return rdb.Set(context.Background(), key, token, duration).Err()
}

func GetSession(rdb *redis.Client, userID string) (string, error) {
	key := fmt.Sprintf(sessionKeyFmt, userID)
	return rdb.Get(context.Background(), key).Result()
}

func DeleteSession(rdb *redis.Client, userID string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf(sessionKeyFmt, userID)
	return rdb.Del(context.Background(), key).Err()
}
