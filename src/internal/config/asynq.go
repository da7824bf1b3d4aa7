package config

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

func asynqRedisOpt(v *viper.Viper) asynq.RedisClientOpt {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}

	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func NewAsynqClient(v *viper.Viper) *asynq.Client {
	return asynq.NewClient(asynqRedisOpt(v))
}

func NewAsynqServer(v *viper.Viper) (*asynq.Server, *asynq.ServeMux) {
	concurrency := v.GetInt("asynq.concurrency")
	if concurrency == 0 {
		concurrency = 5
	}

	server := asynq.NewServer(asynqRedisOpt(v), asynq.Config{
		Concurrency: concurrency,
	})

	return server, asynq.NewServeMux()
}
