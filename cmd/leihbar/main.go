package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appavailability "leihbar/internal/app/availability"
	"leihbar/internal/app/commands"
	availabilityapp "leihbar/internal/app/handlers/availability"
	bookingapp "leihbar/internal/app/handlers/booking"
	contractapp "leihbar/internal/app/handlers/contracts"
	"leihbar/internal/app/middleware"
	appoutbox "leihbar/internal/app/outbox"
	"leihbar/internal/app/policies"
	"leihbar/internal/app/queries"
	"leihbar/internal/app/uow"
	kafkabroker "leihbar/internal/infra/broker/kafka"
	"leihbar/internal/infra/config"
	mongodb "leihbar/internal/infra/db/mongo"
	ginserver "leihbar/internal/infra/http/gin"
	"leihbar/internal/infra/messaging"
	"leihbar/internal/infra/obs"
	infraoutbox "leihbar/internal/infra/outbox"
	"leihbar/internal/infra/render/pdf"
	"leihbar/internal/infra/storage/memory"
	"leihbar/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	var (
		uowFactory uow.UoWFactory
		box        appoutbox.Outbox
		idStore    middleware.IdempotencyStore
		notifier   policies.Notifier
		archive    policies.DocumentArchive
		ready      = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		contractRepo := mongodb.NewContractRepository(client.DB)
		if err := contractRepo.EnsureIndexes(ctx); err != nil {
			logger.Warn("contract index creation failed", "error", err)
		}
		uowFactory = mongodb.Factory{
			DB:        client.DB,
			Offers:    mongodb.NewOfferRepository(client.DB),
			Bookings:  mongodb.NewBookingLedger(client.DB),
			Overrides: mongodb.NewOverrideLedger(client.DB),
			Contracts: contractRepo,
			Users:     mongodb.NewUserDirectory(client.DB),
		}
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)

		outboxStore := infraoutbox.NewStore(client.DB)
		box = outboxStore

		producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanup = func() { _ = producer.Close() }

		worker := &infraoutbox.Worker{
			Store:       outboxStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()

		notifier, err = messaging.NewKafkaNotifier(producer, cfg.KafkaTopicPrefix)
		if err != nil {
			return application{}, cleanup, err
		}

		archive, err = s3.NewArchive(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("contract archive unavailable", "error", err)
			archive = s3.NoopArchive{}
		}

		ready = func() error { return client.Ping(context.Background()) }
	case "memory":
		uowFactory = memory.Factory{
			Offers:    memory.NewOfferRepository(),
			Bookings:  memory.NewBookingLedger(),
			Overrides: memory.NewOverrideLedger(),
			Contracts: memory.NewContractRepository(),
			Users:     memory.NewUserDirectory(),
		}
		box = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		notifier = memory.NewNotifier()
		archive = s3.NoopArchive{}
	default:
		return application{}, cleanup, errors.New("unknown storage mode " + cfg.StorageMode)
	}

	resolver := appavailability.Resolver{}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		Resolver: resolver,
		Notifier: notifier,
		Outbox:   box,
		Encoder:  encoder,
		Logger:   logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		Notifier: notifier,
		Outbox:   box,
		Encoder:  encoder,
		Logger:   logger,
	})
	commands.RegisterHandler(commandBus, availabilityapp.BlockDatesCommand{}.Key(), &availabilityapp.BlockDatesHandler{
		Outbox:  box,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, availabilityapp.UnblockDatesCommand{}.Key(), &availabilityapp.UnblockDatesHandler{
		Outbox:  box,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, contractapp.GenerateContractCommand{}.Key(), &contractapp.GenerateContractHandler{
		Outbox:  box,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, contractapp.SignContractCommand{}.Key(), &contractapp.SignContractHandler{
		Outbox:  box,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, contractapp.CancelContractCommand{}.Key(), &contractapp.CancelContractHandler{
		Outbox:  box,
		Encoder: encoder,
		Logger:  logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{
		UoWFactory: uowFactory,
		Resolver:   resolver,
	})
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListCustomerBookingsQuery{}.Key(), &bookingapp.ListCustomerBookingsHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListOwnerBookingsQuery{}.Key(), &bookingapp.ListOwnerBookingsHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, contractapp.GetContractQuery{}.Key(), &contractapp.GetContractHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, contractapp.RenderContractQuery{}.Key(), &contractapp.RenderContractHandler{
		UoWFactory: uowFactory,
		Renderer:   pdf.NewRenderer(),
		Archive:    archive,
		Logger:     logger,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	return application{
		handlers: ginserver.Handlers{
			Availability: ginserver.AvailabilityHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
			Booking: ginserver.BookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
			Contract: ginserver.ContractHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
		},
		ready: ready,
	}, cleanup, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
