package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rollbar/rollbar-go"
	"github.com/rs/zerolog"

	appControllers "github.com/ourschool/ourschool/internal/app/controllers"
	appMigrations "github.com/ourschool/ourschool/internal/app/migrations"
	appRepos "github.com/ourschool/ourschool/internal/app/repositories"
	appRoutes "github.com/ourschool/ourschool/internal/app/routes"
	appServices "github.com/ourschool/ourschool/internal/app/services"
	"github.com/ourschool/ourschool/internal/cache"
	"github.com/ourschool/ourschool/internal/config"
	"github.com/ourschool/ourschool/internal/db"
	appMiddleware "github.com/ourschool/ourschool/internal/middleware"
	pkgAuth "github.com/ourschool/ourschool/internal/pkg/auth"
	"github.com/ourschool/ourschool/internal/pkg/helpers"
	"github.com/ourschool/ourschool/internal/pkg/logger"
	"github.com/ourschool/ourschool/internal/seed"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Dependencies holds all the application dependencies
type Dependencies struct {
	DBPool         *pgxpool.Pool
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	ReportCache    *cache.ReportCache
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)

	if cfg.Rollbar.Token != "" {
		rollbar.SetToken(cfg.Rollbar.Token)
		rollbar.SetEnvironment(cfg.Rollbar.Environment)
		rollbar.SetCodeVersion(Version)
	}

	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.Apply(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), cfg, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware against the database pool and report cache.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.DBPool = dbPool
	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	reportTTL := helpers.ParseDuration(cfg.Redis.ReportTTL, 5*time.Minute)
	reportCache, err := cache.NewReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, reportTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	deps.ReportCache = reportCache

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.ReportCache, Version, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Services.Auth)

	deps.Controllers = &appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.Services.Auth, deps.Services.User),
		User:       appControllers.NewUserController(deps.Services.User),
		Student:    appControllers.NewStudentController(deps.Services.Student),
		Subject:    appControllers.NewSubjectController(deps.Services.Subject),
		Template:   appControllers.NewTemplateController(deps.Services.Template),
		Assignment: appControllers.NewAssignmentController(deps.Services.Assignment),
		Term:       appControllers.NewTermController(deps.Services.Term),
		Attendance: appControllers.NewAttendanceController(deps.Services.Attendance, deps.Services.Student),
		Journal:    appControllers.NewJournalController(deps.Services.Journal, deps.Services.Student),
		Points:     appControllers.NewPointsController(deps.Services.Points),
		Settings:   appControllers.NewSettingsController(deps.Services.Settings),
		APIKey:     appControllers.NewAPIKeyController(deps.Services.APIKey),
		Report:     appControllers.NewReportController(deps.Services.Report, deps.Services.Activity),
		Backup:     appControllers.NewBackupController(deps.Services.Backup),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS())
	router.Use(gin.Recovery())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/api/health/db", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.DBPool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
