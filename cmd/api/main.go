package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civicdesk/internal/api/http"
	"github.com/spec-kit/civicdesk/internal/api/http/handlers"
	"github.com/spec-kit/civicdesk/internal/auth"
	"github.com/spec-kit/civicdesk/internal/config"
	"github.com/spec-kit/civicdesk/internal/events"
	"github.com/spec-kit/civicdesk/internal/observability"
	"github.com/spec-kit/civicdesk/internal/persistence"
	"github.com/spec-kit/civicdesk/internal/repository"
	"github.com/spec-kit/civicdesk/internal/service"
	"github.com/spec-kit/civicdesk/internal/session"
	"github.com/spec-kit/civicdesk/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var sessions session.Store
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("redis unavailable; using in-memory sessions", zap.Error(err))
		sessions = session.NewMemoryStore(cfg.Session.TTL())
	} else {
		sessions = session.NewRedisStore(redis.Client, cfg.Session.TTL())
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
		Sessions:       sessions,
		Dispatcher:     dispatcher,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  complaintRepo,
		DepartmentRepo: departmentRepo,
		Dispatcher:     dispatcher,
	})
	dashboardService := service.NewDashboardService(complaintRepo, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(sessions, authService.TokenManager(), userRepo, cfg.Session.CookieName)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService, cfg.Session.CookieName, cfg.Session.TTL(), cfg.App.Name)
	complaintsHandler := handlers.NewComplaintsHandler(complaintService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	pagesHandler := handlers.NewPagesHandler()

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Complaints:     complaintsHandler,
		Dashboards:     dashboardHandler,
		Pages:          pagesHandler,
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
