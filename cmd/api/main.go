package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/gym-service/internal/api/http"
	"github.com/spec-kit/gym-service/internal/api/http/handlers"
	"github.com/spec-kit/gym-service/internal/auth"
	"github.com/spec-kit/gym-service/internal/config"
	"github.com/spec-kit/gym-service/internal/events"
	"github.com/spec-kit/gym-service/internal/observability"
	"github.com/spec-kit/gym-service/internal/persistence"
	"github.com/spec-kit/gym-service/internal/repository"
	"github.com/spec-kit/gym-service/internal/service"
	"github.com/spec-kit/gym-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if cfg.SQLite.RunMigrations {
		if err := persistence.RunMigrations(ctx, db.Handle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(db.Handle())
	sessionRepo := repository.NewSessionRepository(db.Handle())
	memberRepo := repository.NewMemberRepository(db.Handle())
	planRepo := repository.NewPlanRepository(db.Handle())
	paymentRepo := repository.NewPaymentRepository(db.Handle())

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
	})
	memberService := service.NewMemberService(memberRepo, planRepo, dispatcher)
	billingService := service.NewBillingService(service.BillingDependencies{
		PlanRepo:    planRepo,
		MemberRepo:  memberRepo,
		PaymentRepo: paymentRepo,
		Cache:       redis,
		Dispatcher:  dispatcher,
	}, logger)

	authMiddleware := auth.NewAuthMiddleware(authService, cfg.Auth.SessionCookie)

	if cfg.Reaper.Enabled {
		reaper := worker.NewSessionReaper(sessionRepo, cfg.Reaper.Interval(), logger)
		go reaper.Run(ctx)
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.App, cfg.Auth),
		Assistants:     handlers.NewAssistantsHandler(authService),
		Members:        handlers.NewMembersHandler(memberService),
		Billing:        handlers.NewBillingHandler(billingService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
