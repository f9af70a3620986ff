package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/consumer"
	"github.com/Eursukkul/seasonal-booking/internal/handler"
	"github.com/Eursukkul/seasonal-booking/internal/middleware"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/Eursukkul/seasonal-booking/pkg/auth"
	"github.com/Eursukkul/seasonal-booking/pkg/log"
	"github.com/Eursukkul/seasonal-booking/pkg/otelhelper"
	"github.com/Eursukkul/seasonal-booking/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/urfave/cli/v3"
)

const serviceName = "seasonal-booking"

func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	logger := log.WithModule("server")

	if cfg.OtelEnabled {
		tp, err := otelhelper.NewTracerProvider(ctx, serviceName)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer provider", "error", err)
			}
		}()
	}

	if cfg.SeedOnStart {
		if err := seed(ctx, cfg, db); err != nil {
			return err
		}
	}

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	eventTypeRepo := repository.NewEventTypeRepository(db)
	statusRepo := repository.NewWorkflowStatusRepository(db)
	userRepo := repository.NewUserRepository(db)

	availabilitySvc := service.NewAvailabilityService(bookingRepo, eventTypeRepo, statusRepo, cfg.Location(), log.WithModule("availability"))
	if err := availabilitySvc.CheckCatalog(ctx); err != nil {
		return fmt.Errorf("refusing to start: %w", err)
	}

	// RabbitMQ is optional
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, log.WithModule("publisher"))
		if err != nil {
			return fmt.Errorf("connect publisher: %w", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Warn("RABBITMQ_URL not set, lifecycle events are not published")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	bookingSvc := service.NewBookingService(bookingRepo, activityRepo, eventTypeRepo, statusRepo, userRepo, publisher, log.WithModule("booking"))
	eventTypeSvc := service.NewEventTypeService(eventTypeRepo, bookingRepo, publisher, log.WithModule("event_type"))
	statusSvc := service.NewWorkflowStatusService(statusRepo, bookingRepo, log.WithModule("workflow_status"))
	authSvc := service.NewAuthService(userRepo, tokens, log.WithModule("auth"))

	if cfg.RabbitURL != "" {
		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, log.WithModule("consumer"))
		if err != nil {
			return fmt.Errorf("connect consumer: %w", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			return err
		}
		consumerCtx, stopConsumer := context.WithCancel(ctx)
		done := consumer.NewEventTypeConsumer(eventTypeSvc, log.WithModule("catalog_sync")).Start(consumerCtx, msgs)
		// Runs before the deferred Close so an in-flight delivery is acked first.
		defer func() {
			stopConsumer()
			<-done
		}()
	}

	e := newEcho(logger)
	public := e.Group("/api/v1")
	admin := public.Group("/admin", middleware.JWTAuth(tokens), middleware.RequireAdmin)

	handler.NewAvailabilityHandler(availabilitySvc, cfg.Location()).RegisterRoutes(public, admin)
	handler.NewBookingHandler(bookingSvc, statusSvc, cfg.Location()).RegisterRoutes(public, admin)
	handler.NewCatalogHandler(eventTypeSvc, statusSvc).RegisterRoutes(public, admin)
	handler.NewAuthHandler(authSvc).RegisterRoutes(public, admin)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "timezone", cfg.DisplayTimezone)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log.WithModule("http"))
	e.Validator = handler.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	})
	return e
}
