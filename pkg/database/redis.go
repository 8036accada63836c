package database

import (
	"context"
	"fmt"

	"taskflow-backend/configs"

	"github.com/go-redis/redis/v8"
)

func ConnectRedis(cfg configs.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: "",
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
