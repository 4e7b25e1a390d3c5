package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"invoice-service/internal/config"
	"invoice-service/internal/database/minio"
	"invoice-service/internal/database/postgres"
	"invoice-service/internal/database/redis"
	"invoice-service/internal/event"
	"invoice-service/internal/handlers"
	"invoice-service/internal/logger"
	"invoice-service/internal/repository"
	"invoice-service/internal/services"
	"invoice-service/internal/storage"
	"invoice-service/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `serve wires the configured backends and starts the HTTP API.

Backends are chosen with STORE_DRIVER, SESSION_DRIVER, FILE_STORAGE_DRIVER and
EXTRACTION_TRANSPORT. With every driver set to memory or local the service
runs without any external dependency.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", true, "Apply the schema on startup when using postgres")
	serveCmd.Flags().Duration("shutdown-timeout", 15*time.Second, "Grace period for in-flight requests")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, closer, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithComponent("serve")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrate, _ := cmd.Flags().GetBool("migrate")
	store, db, err := openStore(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	sessions, err := openSessions(cfg)
	if err != nil {
		return err
	}

	files, err := openFileStore(cfg)
	if err != nil {
		return err
	}

	var broker *event.RabbitMQConnection
	if cfg.UsesAMQP() {
		if broker, err = event.ConnectWithRetry(cfg.RabbitMQCfg, 10, 3*time.Second); err != nil {
			return err
		}
		defer broker.Close()
	}

	var dispatcher services.ExtractionDispatcher
	switch cfg.ExtractionCfg.Transport {
	case "http":
		dispatcher = services.NewHTTPExtractionClient(cfg.ExtractionCfg.URL, cfg.ExtractionCfg.Timeout)
	case "amqp":
		dispatcher = event.NewExtractionPublisher(broker.Channel)
	}

	pool := worker.NewWorkingPool(cfg.WorkerCfg.NumWorkers, cfg.WorkerCfg.QueueSize)
	var poolWg sync.WaitGroup
	poolWg.Add(1)
	go pool.Start(ctx, &poolWg)

	mode, err := services.ParseSettlementMode(cfg.PaymentCfg.SettlementMode)
	if err != nil {
		return err
	}

	jwtSvc := services.NewJWTService(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.TokenTTL)
	authSvc := services.NewAuthService(store, sessions, jwtSvc)
	extractionSvc := services.NewExtractionService(store, dispatcher, pool, cfg.ExtractionCfg.Timeout)
	reminderSvc := services.NewReminderService(store)

	if err := authSvc.SeedAdmin(ctx, cfg.AdminSeedCfg.Username, cfg.AdminSeedCfg.Password); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if cfg.ExtractionCfg.Transport == "amqp" {
		if err := event.NewExtractionConsumer(broker.Channel, extractionSvc).Start(ctx); err != nil {
			return err
		}
	}
	if cfg.ReminderCfg.FeedEnabled {
		feed := event.NewReminderFeedPublisher(broker.Channel, reminderSvc)
		scheduler, err := feed.Schedule(cfg.ReminderCfg.FeedSchedule, time.Minute)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Dependencies{
		Resolver:     services.NewTenantResolver(jwtSvc, sessions, cfg.APIKey),
		Auth:         authSvc,
		Companies:    services.NewCompanyService(store),
		Customers:    services.NewCustomerService(store),
		Invoices:     services.NewInvoiceService(store, extractionSvc),
		Extraction:   extractionSvc,
		Confirmation: services.NewConfirmationService(store),
		Payments:     services.NewPaymentService(store, mode),
		Reminders:    reminderSvc,
		Documents:    services.NewDocumentService(store),
		Files:        files,
		MaxFileBytes: cfg.StorageCfg.MaxFileBytes,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("settlement_mode", string(mode)).Msg("invoice service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		poolWg.Wait()
		return err
	case <-ctx.Done():
	}

	grace, _ := cmd.Flags().GetDuration("shutdown-timeout")
	log.Info().Dur("grace", grace).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown did not complete")
	}
	poolWg.Wait()
	log.Info().Msg("invoice service stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.InvoiceServiceConfig, migrate bool) (repository.Store, *sqlx.DB, error) {
	if cfg.StoreDriver == "memory" {
		l := logger.WithComponent("serve")
		l.Warn().Msg("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil, nil
	}
	db, err := postgres.ConnectWithRetry(cfg.PostgresCfg, 10, 3*time.Second)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := postgres.ApplySchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return repository.NewPostgresStore(db), db, nil
}

func openSessions(cfg *config.InvoiceServiceConfig) (repository.SessionRepository, error) {
	if cfg.AuthCfg.SessionDriver == "memory" {
		return repository.NewMemorySessionRepository(), nil
	}
	client, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		return nil, err
	}
	return repository.NewSessionRepository(client), nil
}

func openFileStore(cfg *config.InvoiceServiceConfig) (handlers.FileStore, error) {
	if cfg.StorageCfg.Driver == "local" {
		return storage.NewLocalStore(cfg.StorageCfg.LocalDir), nil
	}
	client, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
