package main

import (
	"cafe_pos_server/api"
	"cafe_pos_server/config"
	"cafe_pos_server/database"
	"cafe_pos_server/messaging"
	"cafe_pos_server/services"
	"cafe_pos_server/structs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

var logger *gecho.Logger
var cfg *structs.Config

// orderPublisher is what main needs from either publisher implementation.
type orderPublisher interface {
	services.OrderEventPublisher
	Close() error
}

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	db := database.GetInstance()

	if err := prepareDatabase(db); err != nil {
		logger.Fatal("Failed to prepare database", gecho.Field("error", err))
	}

	publisher := newPublisher()
	sm := services.NewServiceManager(logger, cfg, db, publisher)

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	done := setupGracefulShutdown(server)

	logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", gecho.Field("error", err))
	}
	<-done

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sm.OrderService.DrainPublishes(drainCtx); err != nil {
		logger.Warn("Shutting down with unpublished order events", gecho.Field("error", err.Error()))
	}
	cancelDrain()

	var closers errgroup.Group
	closers.Go(closeWith("order publisher", publisher.Close))
	closers.Go(closeWith("cache connection", sm.CacheService.Close))
	closers.Go(closeWith("database", database.CloseInstance))
	_ = closers.Wait()

	logger.Info("Server stopped")
}

func prepareDatabase(db *database.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("Database schema is up to date")
	}

	if cfg.Database.SeedSample {
		categories, items, err := database.SeedSampleMenu(ctx, db)
		if err != nil {
			return err
		}
		logger.Info("Sample menu seeded",
			gecho.Field("categories", categories),
			gecho.Field("items", items),
		)
	}

	return nil
}

// newPublisher connects to RabbitMQ when configured. Without a broker, orders are still taken and events are dropped.
func newPublisher() orderPublisher {
	if cfg.Messaging.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, order events are disabled")
		return messaging.NoopPublisher{}
	}

	conn, err := messaging.Dial(cfg.Messaging.RabbitMQURL, cfg.Messaging.Exchange, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, order events are disabled", gecho.Field("error", err))
		return messaging.NoopPublisher{}
	}

	return messaging.NewPublisher(conn, logger)
}

// closeWith releases one dependency, logging instead of failing the shutdown
func closeWith(name string, closeFn func() error) func() error {
	return func() error {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close "+name, gecho.Field("error", err))
			return err
		}
		return nil
	}
}

// setupGracefulShutdown drains in-flight requests on SIGINT/SIGTERM. The returned channel closes once the server has stopped.
func setupGracefulShutdown(server *http.Server) <-chan struct{} {
	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	logger.Info("Graceful shutdown handler initialized")

	go func() {
		defer close(done)

		sig := <-c
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", gecho.Field("error", err))
		}
	}()

	return done
}
