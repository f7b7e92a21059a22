package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/cart"
	"github.com/chaikhana/backend/internal/catalog"
	"github.com/chaikhana/backend/internal/config"
	"github.com/chaikhana/backend/internal/courier"
	"github.com/chaikhana/backend/internal/db"
	"github.com/chaikhana/backend/internal/events"
	httphandler "github.com/chaikhana/backend/internal/handler/http"
	"github.com/chaikhana/backend/internal/order"
	"github.com/chaikhana/backend/internal/payment"
	"github.com/chaikhana/backend/internal/profile"
)

const cartTTL = 30 * 24 * time.Hour

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "chaikhana").Logger()

	log.Info().Msg("Ordering service starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	redisClient, err := db.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer redisClient.Close()

	catalogSvc := catalog.NewService(catalog.NewRepository(pg.Pool))
	cartSvc := cart.NewService(cart.NewRedisStore(redisClient, cartTTL), catalogSvc)
	profileSvc := profile.NewService(profile.NewRepository(pg.Pool), cfg.Auth)
	courierSvc := courier.NewService(courier.NewRepository(pg.Pool))
	gateway := payment.NewHTTPGateway(cfg.Payment)

	var publisher order.EventPublisher
	if cfg.Kafka.Broker != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Str("broker", cfg.Kafka.Broker).Str("topic", cfg.Kafka.Topic).Msg("Order events enabled")
	} else {
		log.Info().Msg("KAFKA_BROKER not set, order events disabled")
	}

	orderSvc := order.NewService(order.NewRepository(pg.Pool), cartSvc, gateway, publisher)

	router := httphandler.NewRouter(httphandler.RouterDeps{
		Catalog:  catalogSvc,
		Carts:    cartSvc,
		Orders:   orderSvc,
		Couriers: courierSvc,
		Profiles: profileSvc,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
