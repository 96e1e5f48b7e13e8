package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	notificationservice "stackit/contexts/engagement/notification-service"
	notificationpostgres "stackit/contexts/engagement/notification-service/adapters/postgres"
	notificationworkers "stackit/contexts/engagement/notification-service/application/workers"
	answerservice "stackit/contexts/knowledge-exchange/answer-service"
	answerpostgres "stackit/contexts/knowledge-exchange/answer-service/adapters/postgres"
	answerworkers "stackit/contexts/knowledge-exchange/answer-service/application/workers"
	questionservice "stackit/contexts/knowledge-exchange/question-service"
	questionpostgres "stackit/contexts/knowledge-exchange/question-service/adapters/postgres"
	questionworkers "stackit/contexts/knowledge-exchange/question-service/application/workers"
	adminservice "stackit/contexts/internal-ops/admin-service"
	adminpostgres "stackit/contexts/internal-ops/admin-service/adapters/postgres"
	"stackit/internal/platform/config"
	"stackit/internal/platform/db"
	"stackit/internal/platform/httpserver"
	"stackit/internal/platform/identity"
	"stackit/internal/platform/messaging"
	"stackit/internal/platform/realtime"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server             *httpserver.Server
	postgres           *db.Postgres
	questionRelay      questionworkers.OutboxRelay
	answerRelay        answerworkers.OutboxRelay
	questionPosted     notificationworkers.QuestionPostedConsumer
	questionDeleted    answerworkers.QuestionDeletedConsumer
	runPostedConsumer  bool
	runDeletedConsumer bool
	pollInterval       time.Duration
	logger             *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	questionRelay   questionworkers.OutboxRelay
	answerRelay     answerworkers.OutboxRelay
	questionDeleted answerworkers.QuestionDeletedConsumer
	runPurge        bool
	pollInterval    time.Duration
	logger          *slog.Logger
}

// BuildAPI wires the full board: repositories, modules, the live registry,
// and the in-process event path that feeds live broadcasts. The relays and
// consumers run inside the API process because the bus is in-process; the
// worker process covers deployments with an external broker.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	registry := realtime.NewRegistry(logger)

	questionRepo := questionpostgres.NewRepository(pg.DB, logger)
	questionModule := questionservice.NewModule(questionservice.Dependencies{
		Questions: questionRepo,
		Users:     questionRepo,
		Outbox:    questionRepo,
		Clock:     questionpostgres.SystemClock{},
		IDGen:     questionpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notificationModule := notificationservice.NewModule(notificationservice.Dependencies{
		Notifications: notificationRepo,
		Users:         notificationRepo,
		Live:          registry,
		Clock:         notificationpostgres.SystemClock{},
		IDGen:         notificationpostgres.UUIDGenerator{},
		Logger:        logger,
	})

	answerRepo := answerpostgres.NewRepository(pg.DB, logger)
	answerModule := answerservice.NewModule(answerservice.Dependencies{
		Answers:   answerRepo,
		Questions: answerRepo,
		Users:     answerRepo,
		Notifier:  DispatcherNotifier{Dispatcher: notificationModule.Dispatcher},
		Outbox:    answerRepo,
		Clock:     answerpostgres.SystemClock{},
		IDGen:     answerpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	adminRepo := adminpostgres.NewRepository(pg.DB, logger)
	adminModule := adminservice.NewModule(adminservice.Dependencies{
		Stats:  adminRepo,
		Users:  adminRepo,
		Audit:  adminRepo,
		Clock:  adminpostgres.SystemClock{},
		IDGen:  adminpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(
		questionModule,
		answerModule,
		notificationModule,
		adminModule,
		identity.NewResolver(cfg.JWTSecret),
		registry,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)

	return &APIApp{
		server:   server,
		postgres: pg,
		questionRelay: questionworkers.OutboxRelay{
			Outbox:    questionRepo,
			Publisher: bus,
			Clock:     questionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		answerRelay: answerworkers.OutboxRelay{
			Outbox:    answerRepo,
			Publisher: bus,
			Clock:     answerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		questionPosted: notificationworkers.QuestionPostedConsumer{
			Subscriber: bus,
			Dedup:      notificationRepo,
			Live:       registry,
			Clock:      notificationpostgres.SystemClock{},
			Logger:     logger,
		},
		questionDeleted: answerworkers.QuestionDeletedConsumer{
			Subscriber: bus,
			Dedup:      answerRepo,
			Answers:    answerRepo,
			Clock:      answerpostgres.SystemClock{},
			Logger:     logger,
		},
		runPostedConsumer:  cfg.EnableQuestionPostedBroadcast,
		runDeletedConsumer: cfg.EnableQuestionDeletedPurge,
		pollInterval:       2 * time.Second,
		logger:             logger,
	}, nil
}

// BuildWorker wires the relay/consumer half alone, for deployments where the
// API process delegates eventing to a separate worker.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	questionRepo := questionpostgres.NewRepository(pg.DB, logger)
	answerRepo := answerpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		questionRelay: questionworkers.OutboxRelay{
			Outbox:    questionRepo,
			Publisher: bus,
			Clock:     questionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		answerRelay: answerworkers.OutboxRelay{
			Outbox:    answerRepo,
			Publisher: bus,
			Clock:     answerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		questionDeleted: answerworkers.QuestionDeletedConsumer{
			Subscriber: bus,
			Dedup:      answerRepo,
			Answers:    answerRepo,
			Clock:      answerpostgres.SystemClock{},
			Logger:     logger,
		},
		runPurge:     cfg.EnableQuestionDeletedPurge,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.runPostedConsumer {
		if err := a.questionPosted.Start(ctx); err != nil {
			return err
		}
	}
	if a.runDeletedConsumer {
		if err := a.questionDeleted.Start(ctx); err != nil {
			return err
		}
	}

	go a.runRelays(ctx)

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) runRelays(ctx context.Context) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		// Relay failures are retried next tick; rows stay pending until
		// publish succeeds.
		_ = a.questionRelay.RunOnce(ctx)
		_ = a.answerRelay.RunOnce(ctx)
	}
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.runPurge {
		if err := w.questionDeleted.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.questionRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.answerRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
