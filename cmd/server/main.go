package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/gaganmanku96/ElderlyCare/internal/adapter/assist_http"
	"github.com/gaganmanku96/ElderlyCare/internal/adapter/ollama"
	"github.com/gaganmanku96/ElderlyCare/internal/infra/config"
	"github.com/gaganmanku96/ElderlyCare/internal/infra/logger"
	"github.com/gaganmanku96/ElderlyCare/internal/usecase"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Initialize Backend Client
	backend := ollama.NewClient(cfg.OllamaBaseURL, cfg.TargetModelFamily, cfg.GenerateTimeout, cfg.HealthTimeout, log)
	defer backend.Close()

	// 4. Startup Health Probe
	probeCtx, probeCancel := context.WithTimeout(context.Background(), cfg.HealthTimeout)
	health := backend.CheckHealth(probeCtx)
	probeCancel()
	if health.Reachable {
		log.Info("connected to Ollama", "models", health.AvailableModels)
		if health.TargetModelPresent {
			log.Info("target model family detected", "family", cfg.TargetModelFamily)
		} else {
			log.Warn("target model family not found", "family", cfg.TargetModelFamily)
		}
	} else {
		log.Warn("Ollama not available", "detail", health.ErrorDetail)
	}

	// 5. Initialize Usecases
	analyzeUsecase := usecase.NewAnalyzeQueryUsecase(
		backend,
		usecase.NewGuidancePromptBuilder(),
		usecase.NewLineStepExtractor(),
		cfg.DefaultModel,
		cfg.MaxImageSize,
		log,
	)

	// 6. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	// 7. Initialize Handlers
	handler := assist_http.NewHandler(analyzeUsecase, backend, cfg.DefaultModel, log)

	// 8. Register Routes
	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.GET("/api/models", handler.Models)

	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS)),
	})
	e.POST("/api/analyze", handler.Analyze, limiter)
	e.POST("/api/screenshot", handler.Screenshot, limiter)

	// 9. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
