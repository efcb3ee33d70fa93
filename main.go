package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight-admin/apperrors"
	"freight-admin/config"
	"freight-admin/database"
	"freight-admin/httpServices/mail"
	"freight-admin/httpServices/storage"
	"freight-admin/logger"
	"freight-admin/messaging/kafka"
	"freight-admin/messaging/rabbitmq"
	"freight-admin/middleware"
	"freight-admin/routes"
	ledgerService "freight-admin/services/ledger"
	"freight-admin/services/notification"
	shipmentService "freight-admin/services/shipment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Server exited", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Setup(cfg.LogDir, !cfg.IsProduction()); err != nil {
		fmt.Println("Error opening log file", err)
	}

	db, err := database.InitDB(cfg.Database, !cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	asyncLogger := logger.NewAsyncLogger(db, 256)
	go asyncLogger.ProcessLog()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := asyncLogger.Close(ctx); err != nil {
			logger.Error("Request log queue not drained", err)
		}
	}()

	sink := apperrors.LogSink{}
	channel, closeChannel, err := notificationChannel(cfg)
	if err != nil {
		return fmt.Errorf("set up notification channel: %w", err)
	}
	defer closeChannel()

	listeners := []shipmentService.StatusListener{
		notification.NewDispatcher(channel, cfg.PublicSiteURL),
	}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer producer.Close()
		listeners = append(listeners, kafka.NewStatusPublisher(producer))
		logger.Info("Publishing status changes to Kafka topic " + cfg.Kafka.Topic)
	}

	var store shipmentService.ObjectStore
	if cfg.Storage.URL != "" {
		store = storage.NewClient(cfg.Storage.URL, cfg.Storage.ServiceKey, cfg.Storage.Bucket)
	} else {
		logger.Warning("STORAGE_URL not set, proof uploads are disabled")
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.FrontendURL != "*",
	}))
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), cfg.RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	routes.SetupRoutes(app, routes.Dependencies{
		DB:        db,
		Logger:    asyncLogger,
		Guard:     middleware.NewGuard(middleware.NewVerifier(cfg.Auth)),
		Shipments: shipmentService.NewService(db, store, sink, listeners...),
		Ledger:    ledgerService.NewService(db, sink),
	})

	listenErr := make(chan error, 1)
	go func() {
		addr := cfg.Host + ":" + cfg.Port
		logger.Success("Server is running on " + addr)
		listenErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Graceful shutdown failed", err)
	}
	return nil
}

// notificationChannel picks the email transport named by MAIL_DRIVER.
func notificationChannel(cfg *config.Config) (notification.Channel, func(), error) {
	switch cfg.Mail.Driver {
	case "resend":
		return mail.NewResendClient(cfg.Mail.ResendURL, cfg.Mail.ResendAPIKey, cfg.Mail.From), func() {}, nil
	case "rabbitmq":
		client, err := rabbitmq.NewClient(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := client.DeclareQueue(cfg.RabbitMQ.Queue); err != nil {
			client.Close()
			return nil, nil, err
		}
		return rabbitmq.NewEmailQueue(client, cfg.RabbitMQ.Queue), func() { client.Close() }, nil
	default:
		return notification.LogChannel{}, func() {}, nil
	}
}
