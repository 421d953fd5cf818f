package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctionhouse/internal/api/handlers"
	"auctionhouse/internal/config"
	"auctionhouse/internal/domain"
	"auctionhouse/internal/infrastructure/memory"
	"auctionhouse/internal/infrastructure/mysql"
	wsinfra "auctionhouse/internal/infrastructure/websocket"
	"auctionhouse/internal/services"
	"auctionhouse/pkg/logger"

	redisinfra "auctionhouse/internal/infrastructure/redis"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting auction server", "config", cfg.GetConfigString())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Initialize the store
	var store domain.AuctionStore
	switch cfg.Store.Backend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			log.Error("Failed to open MySQL", "error", err)
			os.Exit(1)
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				log.Error("Failed to close MySQL connection", "error", err)
			}
		}(db)

		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			log.Error("Failed to ping MySQL", "error", err)
			os.Exit(1)
		}

		mysqlStore := mysql.NewMySQLAuctionStore(db)
		if err := mysqlStore.InitSchema(ctx); err != nil {
			log.Error("Failed to initialize schema", "error", err)
			os.Exit(1)
		}
		store = mysqlStore
		log.Info("Connected to MySQL")

	case "memory":
		store = memory.NewAuctionStore()
		log.Info("Using in-memory store")
	}

	// Initialize the observer registry and event pipeline
	registry := wsinfra.NewRegistry(log)
	relay := services.NewEventRelay(registry, log)

	var eventPub domain.EventPublisher
	var eventSub domain.EventSubscriber
	switch cfg.Events.Backend {
	case "redis":
		rdb := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		log.Info("Connected to Redis", "address", cfg.Redis.Address)

		eventPub = redisinfra.NewEventPublisher(rdb)
		eventSub = redisinfra.NewEventSubscriber(rdb, log)

	case "local":
		bus := services.NewLocalEventBus(cfg.Events.BufferSize, log)
		eventPub = bus
		eventSub = bus
	}

	auctionService := services.NewAuctionService(store, eventPub, log)

	relayCtx, relayCancel := context.WithCancel(context.Background())
	defer relayCancel()
	go func() {
		if err := relay.Start(relayCtx, eventSub); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event relay stopped", "error", err)
		}
	}()

	// Periodic liveness sweep over observer connections
	pingCron := cron.New()
	if _, err := pingCron.AddFunc(fmt.Sprintf("@every %s", cfg.Observers.PingInterval), registry.PingSweep); err != nil {
		log.Error("Failed to schedule ping sweep", "error", err)
		os.Exit(1)
	}
	pingCron.Start()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers
	auctionHandler := handlers.NewAuctionHandler(auctionService, log)
	subscribeHandler := wsinfra.NewSubscribeHandler(registry, log)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/auctions", auctionHandler.InitiateAuction)
	api.POST("/auctions/:id/bids", auctionHandler.PlaceBid)
	api.POST("/auctions/:id/conclude", auctionHandler.ConcludeAuction)

	e.GET("/ws/broadcasts", func(c echo.Context) error {
		subscribeHandler.HandleSubscribe(c.Response(), c.Request())
		return nil
	})

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-server",
			"timestamp": time.Now().Format(time.RFC3339),
			"observers": registry.Len(),
		})
	})

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting auction server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	pingCron.Stop()
	relayCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction server stopped")
}
