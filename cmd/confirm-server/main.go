package main

import (
	"context"
	"fmt"

	"confirm-core/internal/handler"
	"confirm-core/internal/model"
	"confirm-core/internal/server"
	"confirm-core/internal/service"
	"confirm-core/internal/service/audit"
	"confirm-core/internal/service/confirm"
	"confirm-core/internal/service/messenger"
	"confirm-core/internal/service/mq"
	"confirm-core/internal/service/presenter"
	"confirm-core/internal/service/signer"

	"confirm-core/pkg/config"
	"confirm-core/pkg/database"
	"confirm-core/pkg/logger"

	"go.uber.org/zap"
)

// dispatchFunc adapts a closure to the loopback signer's Dispatcher, so the
// signer can be built before the coordinator exists.
type dispatchFunc func(ctx context.Context, ev confirm.Event) error

func (f dispatchFunc) Dispatch(ctx context.Context, ev confirm.Event) error {
	return f(ctx, ev)
}

func main() {
	// 0. Config
	config.Init()

	// 1. Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	// 3. Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	// 4. Schema migration (dev only; production uses cmd/migrate)
	if config.Global.App.Env == "development" {
		logger.Info("development env: running GORM AutoMigrate")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("auto migration failed", zap.Error(err))
		}
	} else {
		logger.Info("production env: skipping AutoMigrate, manage schema with the migrate tool")
	}

	// 5. Message queue
	var producer mq.Producer
	var consumer mq.Consumer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("using Kafka as message queue")
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
		consumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, "confirm_core_group")
	} else {
		logger.Info("using Redis Streams as message queue")
		producer = mq.NewRedisProducer(rdb)
		consumer = mq.NewRedisConsumer(rdb, "confirm_core", "confirm-0")
	}

	// 6. Collaborator capabilities
	messengerClient := messenger.NewMQMessenger(producer)
	presenterClient := presenter.NewMQPresenter(producer)
	auditStore := audit.NewGormStore(db)

	var coordinator *confirm.Coordinator

	var signerClient service.SignerClient
	if config.Global.Confirm.SignerMode == "loopback" {
		logger.Info("using loopback signer (development simulator)")
		lb, err := signer.NewLoopbackSigner(
			config.Global.Confirm.LoopbackPassword,
			dispatchFunc(func(ctx context.Context, ev confirm.Event) error {
				return coordinator.Dispatch(ctx, ev)
			}),
		)
		if err != nil {
			logger.Fatal("loopback signer init failed", zap.Error(err))
		}
		signerClient = lb
	} else {
		signerClient = signer.NewMQSigner(producer)
	}

	// 7. Coordinator
	coordinator = confirm.NewCoordinator(confirm.Options{
		RetryCeiling: config.Global.Confirm.RetryCeiling,
		EventBuffer:  config.Global.Confirm.EventBuffer,
	}, signerClient, messengerClient, presenterClient, auditStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go coordinator.Run(ctx)

	// 8. Inbound topics
	if err := confirm.BindConsumer(ctx, consumer, coordinator); err != nil {
		logger.Fatal("consumer binding failed", zap.Error(err))
	}

	// 9. HTTP server
	confirmHandler := handler.NewConfirmHandler(coordinator)
	r := server.NewHTTPRouter(confirmHandler)

	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	// 10. Cleanup
	cancel()
	if err := consumer.Close(); err != nil {
		logger.Error("consumer close failed", zap.Error(err))
	}
	logger.Info("closing database connections...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("exited")
}
