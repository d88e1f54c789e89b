package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Lixing-Zhang/flytire/backend/internal/config"
	"github.com/Lixing-Zhang/flytire/backend/internal/handlers"
	"github.com/Lixing-Zhang/flytire/backend/internal/metrics"
	"github.com/Lixing-Zhang/flytire/backend/internal/notification"
	"github.com/Lixing-Zhang/flytire/backend/internal/repository"
	"github.com/Lixing-Zhang/flytire/backend/internal/service"
	"github.com/Lixing-Zhang/flytire/backend/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting FlyTire backend",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"timezone", cfg.Store.Location.String(),
		"counter_file", cfg.Store.CounterFile,
	)

	if os.Getenv("SESSION_SECRET") == "" {
		log.Warn("SESSION_SECRET not set, admin sessions will not survive a restart")
	}

	serverMetrics := metrics.NewServerMetrics()

	// Order pipeline
	counterRepo := repository.NewFileCounterRepository(cfg.Store.CounterFile)
	log.Info("order counter ready", "last_number", counterRepo.Current())

	telegram := notification.NewTelegramClient(notification.TelegramOptions{
		APIURL:   cfg.Telegram.APIURL,
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		Timeout:  cfg.Telegram.Timeout,
	}, log)

	orderService := service.NewOrderService(
		service.NewOrderIDGenerator(counterRepo),
		telegram,
		log,
		service.WithLocation(cfg.Store.Location),
		service.WithMetrics(serverMetrics),
	)
	authService := service.NewAuthService(
		cfg.Admin.Login,
		cfg.Admin.Password,
		cfg.Admin.SessionSecret,
		cfg.Admin.SessionTTL,
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		Health:         handlers.NewHealthHandler(cfg.ServiceName, log),
		Orders:         handlers.NewOrderHandler(orderService, log),
		Admin:          handlers.NewAdminHandler(authService, log),
		Static:         handlers.NewStaticHandler(cfg.Store.StaticDir, log),
		Auth:           authService,
		Metrics:        serverMetrics,
		Logger:         log,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		// leaves headroom for the messaging API timeout
		RequestTimeout: cfg.Telegram.Timeout + 5*time.Second,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
