package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/config"
	deliveryHttp "github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http/handler"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http/middleware"
	"github.com/RouteClouds/Health-Care-Management-System/internal/infrastructure/cache"
	"github.com/RouteClouds/Health-Care-Management-System/internal/infrastructure/database"
	"github.com/RouteClouds/Health-Care-Management-System/internal/repository"
	"github.com/RouteClouds/Health-Care-Management-System/internal/service"
	"github.com/RouteClouds/Health-Care-Management-System/internal/usecase"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/jwt"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/metrics"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	setupLogger(cfg.Log)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, err
		}
	}

	// Redis only backs rate limiting, so the service starts without it
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, rate limiting fails open: %v", err)
	}
	app.RedisClient = redisClient

	server, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	log := logrus.StandardLogger()

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler time zone: %w", err)
	}
	trustedProxies, err := cfg.RateLimit.TrustedPrefixes()
	if err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	collector := metrics.NewCollector(cfg.App.Name)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	doctorRepo := repository.NewDoctorRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	rateLimiter := service.NewRedisRateLimiter(redisClient, log, cfg.RateLimit.AuthRequestsPerMinute, time.Minute)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, auditService, jwtService)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo, departmentRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log,
		repository.NewAppointmentRepository, repository.NewDoctorRepository,
		auditService, collector, loc)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	var cachePinger handler.Pinger
	if redisClient != nil {
		cachePinger = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	healthHandler := handler.NewHealthHandler(log, cfg.App.Name, sqlDB, cachePinger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigin)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimiter, "auth", trustedProxies, log, collector)
	observabilityMiddleware := middleware.NewObservabilityMiddleware(log, collector)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, doctorHandler, appointmentHandler, auditLogHandler, healthHandler, collector.Handler(),
		authMiddleware, corsMiddleware, rateLimitMiddleware, observabilityMiddleware,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logrus.Infof("Received %s, shutting down server...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
