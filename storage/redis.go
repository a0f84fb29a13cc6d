package storage

import (
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var Redis *redis.Client

func InitializeRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		logrus.Warn("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	logrus.WithField("addr", redisURL).Info("redis initialized")
}
