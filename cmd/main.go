package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickbites/internal/cart"
	"quickbites/internal/catalog"
	"quickbites/internal/config"
	"quickbites/internal/database"
	"quickbites/internal/logger"
	"quickbites/internal/messaging"
	"quickbites/internal/pricing"
	"quickbites/internal/services/order"
)

func main() {
	var (
		mode = flag.String("mode", "order-service", "Service mode")
		port = flag.Int("port", 0, "HTTP port (overrides HTTP_PORT)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": cfg.HTTP.Port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	if err := runOrderService(ctx, cfg, log); err != nil {
		log.Error("service_failed", "Order service failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb := cart.NewRedisClient(&cfg.Redis)
	defer rdb.Close()

	carts := cart.NewStore(rdb)
	if err := carts.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("redis_connected", "Connected to Redis", requestID, nil)

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	lookup := catalog.NewPostgresLookup(db)
	repo := order.NewPostgresRepository(db)
	calc := pricing.New(cfg.Pricing)
	service := order.NewService(repo, lookup, calc, publisher, log)
	handler := order.NewHandler(service, carts, lookup, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Routes(),
	}

	go func() {
		log.Info("http_listening", fmt.Sprintf("Order service listening on port %d", cfg.HTTP.Port), requestID, map[string]interface{}{
			"port": cfg.HTTP.Port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}
