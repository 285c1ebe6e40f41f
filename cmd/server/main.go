package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"myduka.backend/internal/config"
	"myduka.backend/internal/infrastructure/datasources/postgres"
	"myduka.backend/internal/infrastructure/mail"
	"myduka.backend/internal/infrastructure/models"
	"myduka.backend/internal/infrastructure/repositories"
	"myduka.backend/internal/interfaces/http/handlers"
	"myduka.backend/internal/interfaces/http/middleware"
	"myduka.backend/internal/usecases"
	"myduka.backend/pkg/jwt"
	"myduka.backend/pkg/logger"
	"myduka.backend/pkg/metrics"
	"myduka.backend/pkg/redis"
	"myduka.backend/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.NewConnection
	migrate         = models.AutoMigrate
	newSessionStore = redis.NewSessionStore
	runServer       = serve
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	shutdownTracing, err := tracing.Init(cfg.Telemetry.ServiceName, cfg.Telemetry.TracingEnabled, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	if cfg.Redis.Enabled {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
			logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		logger.Info(context.Background(), "Redis initialized")
	} else {
		logger.Warn(context.Background(), "Redis disabled: sessions and idempotency keys are off")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(context.Background(), "Database ready", zap.String("driver", cfg.Database.Driver))

	r, err := buildRouter(cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           otelhttp.NewHandler(r, "http.server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(ctx, "MyDuka backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)
	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}

// buildRouter wires repositories, usecases and handlers onto a gin engine
func buildRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.VerificationExpiry)
	m := metrics.New()

	userRepo := repositories.NewUserRepository(db)
	storeRepo := repositories.NewStoreRepository(db)
	productRepo := repositories.NewProductRepository(db)
	requestRepo := repositories.NewSupplyRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, storeRepo, jwtService, mail.New(cfg.Mail), cfg.Server.PublicURL)
	if cfg.Redis.Enabled {
		sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize session store: %w", err)
		}
		authUsecase.WithSessionStore(sessionStore)
	}
	accountUsecase := usecases.NewAccountUsecase(userRepo, storeRepo)
	storeUsecase := usecases.NewStoreUsecase(storeRepo, userRepo)
	productUsecase := usecases.NewProductUsecase(productRepo, requestRepo, storeRepo, uow, m)
	requestUsecase := usecases.NewSupplyRequestUsecase(requestRepo, productRepo, storeRepo, uow, m)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(m))
	r.Use(middleware.CORSMiddleware())

	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	registerAPIV1Routes(r, routeDeps{
		authHandler:          handlers.NewAuthHandler(authUsecase),
		accountHandler:       handlers.NewAccountHandler(accountUsecase),
		storeHandler:         handlers.NewStoreHandler(storeUsecase),
		productHandler:       handlers.NewProductHandler(productUsecase),
		supplyRequestHandler: handlers.NewSupplyRequestHandler(requestUsecase),
		authMiddleware:       middleware.AuthMiddleware(authUsecase),
		idempotency:          middleware.IdempotencyMiddleware(),
	})
	return r, nil
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
