package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"shop-service/src/internal/config"
	"shop-service/src/internal/delivery/http/middleware"
	"shop-service/src/pkg/log"
)

func main() {
	viperConfig := config.NewViper()
	viperConfig.SetDefault("log.level", "DEBUG")
	viperConfig.SetDefault("app.name", "SHOP_SERVICE")
	viperConfig.SetDefault("web.port", 8080)
	viperConfig.SetDefault("referral.percent", 0.5)
	viperConfig.SetDefault("withdrawal.min_amount", 0)
	viperConfig.SetDefault("purchase.mode", "balance")
	viperConfig.SetDefault("session.ttl", 30*time.Minute)
	log.InitLogger(viperConfig)
	config.NewKafkaConfig(viperConfig)
	logger := log.GetLogger()
	if err := config.LoadRedisConfig(viperConfig); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to connect redis: %v", err), "main", "")
		os.Exit(1)
	}
	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, logger)
	validate := config.NewValidator(viperConfig)
	app := config.NewFiber(viperConfig)
	app.Use(middleware.NewLogger())
	telegramAPI := config.NewTelegramAPI(viperConfig, logger)

	var asynqClient *asynq.Client
	var asynqServer *asynq.Server
	var asynqMux *asynq.ServeMux
	if telegramAPI != nil {
		asynqClient = config.NewAsynqClient(viperConfig)
		asynqServer, asynqMux = config.NewAsynqServer(viperConfig)
	}

	bot := config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		TelegramAPI: telegramAPI,
		AsynqClient: asynqClient,
		Async:       asynqMux,
	})

	botCtx, stopBot := context.WithCancel(context.Background())
	if bot != nil {
		go bot.Run(botCtx)
		go func() {
			if err := asynqServer.Run(asynqMux); err != nil {
				logger.Error("main", fmt.Sprintf("Failed to start task worker: %v", err), "main", "")
			}
		}()
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("main", "Server shop-service is shutting down...", "graceful", "")

		_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		stopBot()
		if asynqServer != nil {
			asynqServer.Shutdown()
		}
		if err := app.Shutdown(); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		close(done)
	}()

	webPort := viperConfig.GetInt("web.port")
	if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
	}

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "graceful", "")
}
