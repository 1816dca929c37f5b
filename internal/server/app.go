// Package server initializes and runs the taskflow application server.
// It wires the database, repositories, services, and the HTTP endpoint,
// and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/Francortiz-137/taskflow-backend/internal/logging"
	"github.com/Francortiz-137/taskflow-backend/internal/server/config"
	"github.com/Francortiz-137/taskflow-backend/internal/server/httpapi"
	"github.com/Francortiz-137/taskflow-backend/internal/server/ratelimit"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/repomanager"
	"github.com/Francortiz-137/taskflow-backend/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	authService       *services.AuthService
	taskService       *services.TaskService
	attachmentService *services.AttachmentService
	limiter           ratelimit.Limiter
}

func NewApp(cfg *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	refreshService := services.NewRefreshTokenService(db, manager, cfg, logger)
	authService := services.NewAuthService(db, manager, cfg, refreshService, logger)
	taskService := services.NewTaskService(db, manager)
	attachmentService := services.NewAttachmentService(db, manager, cfg)

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(client)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		authService:       authService,
		taskService:       taskService,
		attachmentService: attachmentService,
		limiter:           limiter,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Tokens:               app.authService.TokenManager(),
		Auth:                 app.authService,
		Tasks:                app.taskService,
		Attachments:          app.attachmentService,
		Limiter:              app.limiter,
		LoginRatePerMinute:   app.config.LoginRatePerMinute,
		RefreshRatePerMinute: app.config.RefreshRatePerMinute,
	})

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
