package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/mertdogan/coursehub/internal/app/auth"
	appControllers "github.com/mertdogan/coursehub/internal/app/controllers"
	appMigrations "github.com/mertdogan/coursehub/internal/app/migrations"
	appRepos "github.com/mertdogan/coursehub/internal/app/repositories"
	appRoutes "github.com/mertdogan/coursehub/internal/app/routes"
	appServices "github.com/mertdogan/coursehub/internal/app/services"
	"github.com/mertdogan/coursehub/internal/config"
	"github.com/mertdogan/coursehub/internal/db"
	appMiddleware "github.com/mertdogan/coursehub/internal/middleware"
	pkgAuth "github.com/mertdogan/coursehub/internal/pkg/auth"
	"github.com/mertdogan/coursehub/internal/pkg/email"
	"github.com/mertdogan/coursehub/internal/pkg/filestorage"
	"github.com/mertdogan/coursehub/internal/pkg/helpers"
	"github.com/mertdogan/coursehub/internal/pkg/logger"
	"github.com/mertdogan/coursehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	FileStorage          *filestorage.LocalStorage
	EmailService         email.EmailService
	ScopeResolver        *appAuth.ScopeResolver
	AuthService          *appServices.AuthService
	CourseService        appServices.CourseService
	BatchService         appServices.BatchService
	VideoService         appServices.VideoService
	EnrollmentService    appServices.EnrollmentService
	AdminService         appServices.AdminService
	AuthController       *appControllers.AuthController
	CourseController     *appControllers.CourseController
	BatchController      *appControllers.BatchController
	VideoController      *appControllers.VideoController
	EnrollmentController *appControllers.EnrollmentController
	AdminController      *appControllers.AdminController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Pool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Pool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Pool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	fileStorageBaseURL := cfg.Server.BaseURL + cfg.Storage.BaseURL
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.UploadsDir, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.ScopeResolver = appAuth.NewScopeResolver(deps.Repos.AssignmentRepository)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.PasswordResetTokenRepository,
		deps.JWTService,
		deps.EmailService,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.BatchRepository,
		deps.FileStorage,
	)
	deps.BatchService = appServices.NewBatchService(
		deps.Repos.BatchRepository,
		deps.Repos.CourseRepository,
	)
	deps.VideoService = appServices.NewVideoService(
		deps.Repos.VideoRepository,
		deps.Repos.BatchRepository,
		deps.Repos.AssignmentRepository,
		deps.FileStorage,
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.CourseRepository,
		deps.Repos.BatchRepository,
		deps.Repos.UserRepository,
		deps.Repos.AssignmentRepository,
		deps.EmailService,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Repos.BatchRepository,
		deps.Repos.VideoRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.AssignmentRepository,
		lgr,
	)

	// Best-effort sweep of credentials that can no longer be redeemed
	if err := deps.AuthService.CleanupExpiredCredentials(context.Background()); err != nil {
		lgr.Warn().Err(err).Msg("Expired credential cleanup failed, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.FileStorage)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.BatchService, deps.ScopeResolver)
	deps.BatchController = appControllers.NewBatchController(deps.BatchService, deps.ScopeResolver)
	deps.VideoController = appControllers.NewVideoController(deps.VideoService, deps.ScopeResolver)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService)

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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.BatchController,
		deps.VideoController,
		deps.EnrollmentController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
