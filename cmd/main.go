package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/mytrippers/flight-search-service/internal/app/config"
	"github.com/mytrippers/flight-search-service/internal/app/dto"
	"github.com/mytrippers/flight-search-service/internal/app/endpoints"
	"github.com/mytrippers/flight-search-service/internal/app/service"
	"github.com/mytrippers/flight-search-service/internal/app/transport"
	"github.com/mytrippers/flight-search-service/internal/pkg/booking"
	"github.com/mytrippers/flight-search-service/internal/pkg/currency"
	"github.com/mytrippers/flight-search-service/internal/pkg/flight"
	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider"
	"github.com/mytrippers/flight-search-service/internal/pkg/flightprovider/travelpayouts"
	"github.com/mytrippers/flight-search-service/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// @title           Flight Search Service API
// @version         0.0.1
// @description     flight-search-service
// @host      localhost:8080
// @BasePath  /
func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Debug("config loaded successfully", slog.Any("config", cfg))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	svc := makeFlightService(ctx, &cfg)
	endpts := endpoints.MakeEndpoints(svc)
	router := transport.MakeHTTPRouter(endpts, svc)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeFlightService(ctx context.Context, cfg *config.Config) *service.FlightService {
	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	ratesCache := currency.NewCache(cfg.Currency.RatesAPIURL, cfg.Currency.Base, cfg.Currency.RatesTTL)
	transformer := flight.NewTransformer(currency.NewConverter(ratesCache))

	registry := initProviderRegistry(cfg, redisClient, transformer)

	bookingClient := booking.NewClient(
		cfg.Travelpayouts.ClicksAPIURL,
		cfg.Travelpayouts.Marker,
		cfg.Travelpayouts.Timeout,
	)

	return service.NewFlightService(registry, bookingClient)
}

// register flight provider
func initProviderRegistry(
	cfg *config.Config,
	redisClient *redis.Client,
	transformer *flight.Transformer,
) *flightprovider.Registry {
	limiter := redis_rate.NewLimiter(redisClient)

	registry := flightprovider.NewRegistry()
	registry.AddProvider(travelpayouts.ProviderName, travelpayouts.NewProvider(travelpayouts.Config{
		Token:               cfg.Travelpayouts.Token,
		Marker:              cfg.Travelpayouts.Marker,
		Host:                cfg.Travelpayouts.Host,
		SearchAPIURL:        cfg.Travelpayouts.SearchAPIURL,
		ResultsAPIURL:       cfg.Travelpayouts.ResultsAPIURL,
		IPLookupURL:         cfg.Travelpayouts.IPLookupURL,
		Timeout:             cfg.Travelpayouts.Timeout,
		RateLimitRPS:        cfg.Travelpayouts.RateLimitRPS,
		PollMaxAttempts:     cfg.Travelpayouts.PollMaxAttempts,
		PollInterval:        cfg.Travelpayouts.PollInterval,
		StreamWarmup:        cfg.Travelpayouts.StreamWarmup,
		StreamStopThreshold: cfg.Travelpayouts.StreamStopThreshold,
		Limiter:             limiter,
	}, transformer, flight.ExtractDetails))

	return registry
}
