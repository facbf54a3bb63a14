package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-sla/internal/api/http"
	"github.com/spec-kit/helpdesk-sla/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-sla/internal/auth"
	"github.com/spec-kit/helpdesk-sla/internal/config"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/observability"
	"github.com/spec-kit/helpdesk-sla/internal/persistence"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	"github.com/spec-kit/helpdesk-sla/internal/repository/memory"
	"github.com/spec-kit/helpdesk-sla/internal/service"
	"github.com/spec-kit/helpdesk-sla/internal/sla"
	"github.com/spec-kit/helpdesk-sla/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	tenants   repository.TenantRepository
	users     repository.UserRepository
	tickets   repository.TicketRepository
	comments  repository.TicketCommentRepository
	history   repository.TicketHistoryRepository
	providers repository.ProviderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     repos.users,
		TenantRepo:   repos.tenants,
		TokenManager: tokens,
		BcryptCost:   cfg.Auth.BcryptCost,
		Logger:       logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.tickets,
		HistoryRepo: repos.history,
		Dispatcher:  dispatcher,
		Policy:      sla.NewPolicy(cfg.SLA.CriticalHours, cfg.SLA.HighHours, cfg.SLA.MediumHours, cfg.SLA.LowHours),
		Logger:      logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:  repos.tickets,
		UserRepo:    repos.users,
		HistoryRepo: repos.history,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		TicketRepo:  repos.tickets,
		CommentRepo: repos.comments,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	slaService := service.NewSLAService(service.SLADependencies{
		TicketRepo:  repos.tickets,
		HistoryRepo: repos.history,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})

	var locker worker.Locker
	if redis.Enabled() {
		locker = redis
	}
	sweeper := worker.NewSLASweeper(slaService, locker, worker.SLASweeperConfig{
		Interval: cfg.SLA.SweepInterval(),
		Timeout:  cfg.SLA.SweepTimeout(),
		LockTTL:  cfg.SLA.LockTTL(),
	}, logger, metrics)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatal("failed to start sla sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Tenants:        handlers.NewTenantsHandler(service.NewTenantService(repos.tenants)),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Providers:      handlers.NewProvidersHandler(service.NewProviderService(repos.providers)),
		SLA:            handlers.NewSLAHandler(slaService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.users),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	sweeper.Stop()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		store := memory.NewStore()
		return repositories{
			tenants:   store.Tenants(),
			users:     store.Users(),
			tickets:   store.Tickets(),
			comments:  store.Comments(),
			history:   store.History(),
			providers: store.Providers(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		tenants:   repository.NewTenantRepository(pool),
		users:     repository.NewUserRepository(pool),
		tickets:   repository.NewTicketRepository(pool),
		comments:  repository.NewTicketCommentRepository(pool),
		history:   repository.NewTicketHistoryRepository(pool),
		providers: repository.NewProviderRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
