package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/admin"
	adminpg "github.com/frahmantamala/merchant-management/internal/admin/postgres"
	"github.com/frahmantamala/merchant-management/internal/airwallex"
	"github.com/frahmantamala/merchant-management/internal/auditlog"
	auditlogpg "github.com/frahmantamala/merchant-management/internal/auditlog/postgres"
	"github.com/frahmantamala/merchant-management/internal/auth"
	authpg "github.com/frahmantamala/merchant-management/internal/auth/postgres"
	companypg "github.com/frahmantamala/merchant-management/internal/company/postgres"
	"github.com/frahmantamala/merchant-management/internal/currency"
	currencypg "github.com/frahmantamala/merchant-management/internal/currency/postgres"
	"github.com/frahmantamala/merchant-management/internal/transport/rest"
	"github.com/frahmantamala/merchant-management/internal/transport/swagger"
	"github.com/frahmantamala/merchant-management/internal/user"
	userpg "github.com/frahmantamala/merchant-management/internal/user/postgres"
	"github.com/frahmantamala/merchant-management/internal/webhook"
	webhookpg "github.com/frahmantamala/merchant-management/internal/webhook/postgres"
	"github.com/frahmantamala/merchant-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				deps.Logger.Error("redis close error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	// A broken OpenAPI document should stop the boot, not surface later
	// in the swagger UI.
	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		return fmt.Errorf("openapi spec validation failed: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: deps.DB.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open gorm session: %w", err)
	}

	// Repositories
	authRepo := authpg.NewRepository(gormDB)
	userRepo := userpg.NewUserRepository(gormDB)
	companyRepo := companypg.NewCompanyRepository(gormDB)
	statsRepo := adminpg.NewStatsRepository(gormDB)
	currencyRepo := currencypg.NewCurrencyRepository(gormDB)
	webhookRepo := webhookpg.NewWebhookRepository(gormDB)
	auditRepo := auditlogpg.NewLogRepository(gormDB)

	// Refresh tokens live in redis so restarts and other instances see
	// revocations; the in-memory store is a single-node fallback.
	var tokenStore auth.TokenStore
	if deps.Redis != nil {
		tokenStore = auth.NewRedisTokenStore(deps.Redis, "refresh_token")
	} else {
		lg.Warn("redis not configured, refresh tokens tracked in memory only")
		tokenStore = auth.NewMemoryTokenStore()
	}

	awClient := airwallex.NewClient(airwallex.Config{
		BaseURL:        cfg.Airwallex.BaseURL,
		ClientID:       cfg.Airwallex.ClientID,
		APIKey:         cfg.Airwallex.APIKey,
		RequestTimeout: cfg.Airwallex.RequestTimeout,
	}, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	// Services
	authService := auth.NewService(authRepo, awClient, tokenGen, tokenStore,
		cfg.Security.BCryptCost, cfg.Security.RefreshTokenDuration, lg)
	userService := user.NewService(userRepo, authService, lg)
	adminService := admin.NewService(userRepo, statsRepo, lg)
	currencyService := currency.NewService(currencyRepo, companyRepo, lg)
	webhookService := webhook.NewService(webhookRepo, lg)
	auditService := auditlog.NewService(auditRepo, lg)

	rbac := auth.NewRBACAuthorization(lg)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Admin:     admin.NewHandler(adminService),
		Currency:  currency.NewHandler(currencyService),
		Webhook:   webhook.NewHandler(webhookService),
		AuditLog:  auditlog.NewHandler(auditService),
		Airwallex: airwallex.NewHandler(awClient),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Redis, handlers, rbac,
		auditService, cfg.Audit.PathPrefixes, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Observability.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var redisClient *redis.Client
	if config.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Redis:  redisClient,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the shared connection pool over the pgx stdlib driver.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
