/**
 * @description
 * This is the main entry point for the wallet-service. It is responsible for
 * initializing all components of the service, including configuration, the
 * backing store (in-memory by default, PostgreSQL when DATABASE_URL is set),
 * the message broker producer, the core application service, the pending
 * review scheduler, and the HTTP server. It wires everything together and
 * starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/robfig/cron/v3: Scheduler for the pending review reminder.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"github.com/byfort/wallet-service/internal/api"
	"github.com/byfort/wallet-service/internal/app"
	"github.com/byfort/wallet-service/internal/config"
	"github.com/byfort/wallet-service/internal/store"
	"github.com/byfort/wallet-service/pkg/rabbitmq"
)

func main() {
	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		// Sessions issued with a random secret do not survive a restart.
		jwtSecret = randomSecret()
		log.Println("level=warn component=bootstrap msg=\"jwt secret not configured; generated ephemeral secret\" env=JWT_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting wallet-service\" port=%s", cfg.ServerPort)

	// Select the backing store. A configured DATABASE_URL switches the
	// service from the default in-memory store to PostgreSQL.
	var walletStore store.Store
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
		}
		poolConfig.MaxConns = 20
		poolConfig.MaxConnLifetime = 30 * time.Minute
		poolConfig.MaxConnIdleTime = 5 * time.Minute
		poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

		dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
		}
		defer dbpool.Close()

		pgStore := store.NewPostgresStore(dbpool)
		schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelSchema()
		if err := pgStore.EnsureSchema(schemaCtx); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"schema setup failed\" err=%v", err)
		}
		walletStore = pgStore
		log.Println("level=info component=bootstrap msg=\"database connected\" store=postgres")
	} else {
		memStore := store.NewMemoryStore()
		if cfg.SeedDemoData {
			if err := memStore.SeedDemoData(); err != nil {
				log.Fatalf("level=fatal component=bootstrap msg=\"demo seed failed\" err=%v", err)
			}
			log.Println("level=info component=bootstrap msg=\"demo data seeded\" user=demo-user-1")
		}
		walletStore = memStore
		log.Println("level=info component=bootstrap msg=\"using in-memory store\" store=memory")
	}

	// Initialize the RabbitMQ producer to publish events. The broker is
	// optional; without it events are dropped but the wallet still works.
	var events rabbitmq.Publisher = &rabbitmq.NoopPublisher{}
	if strings.TrimSpace(cfg.RabbitMQURL) != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; events disabled\" err=%v", err)
		} else {
			defer producer.Close()
			events = producer
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}
	}

	// Initialize the core application service with its dependencies.
	walletService := app.NewService(walletStore, events, cfg.WalletEventExchange, cfg.AdminFee)

	// Initialize the API handlers and router.
	handlers := api.NewWalletHandlers(
		walletService,
		jwtSecret,
		time.Duration(cfg.JWTTTLMinutes)*time.Minute,
		cfg.UploadDir,
		cfg.UploadMaxBytes,
	)
	router := api.NewRouter(handlers, cfg.AdminAPIKey)

	// Schedule the pending review reminder.
	if strings.TrimSpace(cfg.PendingReviewSchedule) != "" {
		scheduler := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default()))))
		job := app.NewPendingReviewJob(walletStore, events, cfg.WalletEventExchange)
		if _, err := scheduler.AddJob(cfg.PendingReviewSchedule, job); err != nil {
			log.Fatalf("level=fatal component=bootstrap msg=\"pending review schedule invalid\" schedule=%q err=%v", cfg.PendingReviewSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("level=info component=scheduler msg=\"pending review reminder scheduled\" schedule=%q", cfg.PendingReviewSchedule)
	}

	// Start the HTTP server.
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"random secret generation failed\" err=%v", err)
	}
	return hex.EncodeToString(buf)
}
