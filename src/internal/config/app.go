package config

import (
	"shop-service/src/internal/delivery/http"
	"shop-service/src/internal/delivery/http/middleware"
	"shop-service/src/internal/delivery/http/route"
	"shop-service/src/internal/delivery/telegram"
	"shop-service/src/internal/gateway/messaging"
	"shop-service/src/internal/repository"
	"shop-service/src/internal/usecase"
	"shop-service/src/internal/worker"
	"shop-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "shop-service/src/pkg/kafka/confluent"
	"shop-service/src/pkg/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	TelegramAPI *tgbotapi.BotAPI
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

// Bootstrap wires repositories, use cases and both delivery surfaces. The
// returned bot is nil when the chat transport is disabled.
func Bootstrap(config *BootstrapConfig) *telegram.Bot {
	// setup repositories
	userRepository := repository.NewUserRepository(config.DB)
	productRepository := repository.NewProductRepository(config.DB)
	orderRepository := repository.NewOrderRepository(config.DB)
	teamRepository := repository.NewTeamRepository(config.DB)
	withdrawalRepository := repository.NewWithdrawalRepository(config.DB)
	sessionRepository := repository.NewSessionRepository(config.Redis, config.Config.GetDuration("session.ttl"))
	orderProducer := messaging.NewOrderProducer(config.Producer, config.Log)
	withdrawalProducer := messaging.NewWithdrawalProducer(config.Producer, config.Log)

	// setup use cases
	accountUseCase := usecase.NewAccountUseCase(
		config.Log,
		config.Validate,
		userRepository,
		teamRepository,
	)

	catalogUseCase := usecase.NewCatalogUseCase(
		config.Log,
		config.Validate,
		productRepository,
	)

	orderUseCase := usecase.NewOrderUseCase(
		config.Log,
		config.Validate,
		config.DB,
		orderRepository,
		teamRepository,
		config.Config,
		orderProducer,
		config.AsynqClient,
	)

	purchaseUseCase := usecase.NewPurchaseUseCase(
		config.Log,
		sessionRepository,
		userRepository,
		productRepository,
		orderUseCase,
		config.Config,
	)

	withdrawalUseCase := usecase.NewWithdrawalUseCase(
		config.Log,
		config.Validate,
		config.DB,
		withdrawalRepository,
		teamRepository,
		config.Config,
		withdrawalProducer,
	)

	supportUseCase := usecase.NewSupportUseCase(config.Log, config.Validate)

	// setup controllers
	orderController := http.NewOrderController(orderUseCase, config.Log)
	withdrawalController := http.NewWithdrawalController(withdrawalUseCase, config.Log)
	adminController := http.NewAdminController(accountUseCase, catalogUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyOperator(config.Config)

	var bot *telegram.Bot
	if config.TelegramAPI != nil {
		bot = telegram.NewBot(telegram.BotConfig{
			API:         config.TelegramAPI,
			Log:         config.Log,
			Config:      config.Config,
			Sessions:    sessionRepository,
			Account:     accountUseCase,
			Purchase:    purchaseUseCase,
			Orders:      orderUseCase,
			Withdrawals: withdrawalUseCase,
			Catalog:     catalogUseCase,
			Support:     supportUseCase,
		})

		notifyHandler := worker.NewOrderNotifyHandler(config.Log, orderRepository, bot)
		config.Async.HandleFunc(worker.TypeOrderNotify, notifyHandler.HandleOrderNotify)
	}

	routeConfig := route.RouteConfig{
		App:                  config.App,
		OrderController:      orderController,
		WithdrawalController: withdrawalController,
		AdminController:      adminController,
		AuthMiddleware:       authMiddleware,
	}
	routeConfig.Setup()

	return bot
}
