package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/zirdl/bunubon/controllers"
	"github.com/zirdl/bunubon/database"
	"github.com/zirdl/bunubon/middleware"
	"github.com/zirdl/bunubon/models"
	aws_pkg "github.com/zirdl/bunubon/pkg/aws"
	"github.com/zirdl/bunubon/pkg/logger"
	"github.com/zirdl/bunubon/repository"
	"github.com/zirdl/bunubon/routes"
	"github.com/zirdl/bunubon/services"
	"github.com/zirdl/bunubon/sheets"
	"github.com/zirdl/bunubon/titlesync"
	"go.uber.org/zap"
)

const serviceName = "bunubon-api"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// AWS clients
	awsCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background())

	var cloudWatch io.Writer
	if awsErr == nil && cfg.CloudWatchLogs {
		cw, err := aws_pkg.NewCloudWatchLogsClient(context.Background(), awsCfg, serviceName)
		if err != nil {
			log.Printf("CloudWatch logging disabled: %v", err)
		} else {
			cloudWatch = cw
		}
	}

	appLogger, err := logger.Initialize(cfg.AppEnv, cloudWatch)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	var (
		snsClient   aws_pkg.SNSPublisher
		exportStore aws_pkg.ObjectStore
		metrics     aws_pkg.MetricsRecorder
	)
	if awsErr != nil {
		appLogger.Warn("AWS config unavailable, SNS, S3 archive and metrics disabled", zap.Error(awsErr))
	} else {
		snsClient = aws_pkg.NewSNSClient(awsCfg)
		metrics = aws_pkg.NewMetricsClient(awsCfg)
		if cfg.ExportS3Bucket != "" {
			exportStore = aws_pkg.NewS3Store(awsCfg, cfg.ExportS3Bucket)
		}
	}

	db, err := database.ConnectPostgres(cfg.Postgres(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if err := models.Migrate(db); err != nil {
		appLogger.Fatal("Migration failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			appLogger.Warn("Redis unavailable, cache, denylist and async sync disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close() //nolint:errcheck
		}
	}

	var source sheets.Source
	if gs, err := sheets.NewGoogleSource(context.Background(), sheets.Config{
		CredentialsFile: cfg.GoogleCredentialsFile,
		APIKey:          cfg.GoogleAPIKey,
	}, appLogger); err != nil {
		appLogger.Warn("Google Sheets source disabled", zap.Error(err))
	} else {
		source = gs
	}

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	municipalityRepo := repository.NewGormMunicipalityRepository(db)
	titleRepo := repository.NewGormTitleRepository(db)
	syncRunRepo := repository.NewGormSyncRunRepository(db)
	dashboardRepo := repository.NewGormDashboardRepository(db)

	// Services
	cache := services.NewCacheManager(rdb, appLogger)
	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	authService := services.NewAuthService(userRepo, hasher, tokens, services.NewTokenDenylist(rdb), metrics, appLogger)
	userService := services.NewUserService(userRepo, hasher, appLogger)
	municipalityService := services.NewMunicipalityService(municipalityRepo, cache, appLogger)
	titleService := services.NewTitleService(titleRepo, municipalityRepo, cache, appLogger)
	dashboardService := services.NewDashboardService(dashboardRepo, cache, appLogger)
	exportService := services.NewExportService(titleRepo, exportStore, cfg.ExportS3Prefix, metrics, appLogger)

	engine := titlesync.NewEngine(services.NewSyncStore(titleRepo, municipalityRepo), nil, appLogger)
	syncQueue := services.NewSyncQueue(rdb, appLogger)
	syncService := services.NewSyncService(engine, source, syncRunRepo, syncQueue, cache, snsClient, cfg.SyncSNSTopicARN, metrics, appLogger)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	services.StartSyncWorker(workerCtx, syncQueue, syncService)

	apiLimiter := middleware.PerMinute(300, 60)
	loginLimiter := middleware.PerMinute(cfg.LoginRatePerMinute, cfg.LoginRatePerMinute)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	apiLimiter.StartCleanup(stopCleanup)
	loginLimiter.StartCleanup(stopCleanup)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(appLogger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(apiLimiter))
	if metrics != nil {
		r.Use(middleware.MetricsMiddleware(metrics, serviceName))
	}
	r.Use(middleware.Timeout(30 * time.Second))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})

	routes.RegisterRoutes(r, routes.Controllers{
		Auth:           controllers.NewAuthController(authService, controllers.CookieConfig{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}),
		Users:          controllers.NewUserController(userService),
		Municipalities: controllers.NewMunicipalityController(municipalityService),
		Titles:         controllers.NewTitleController(titleService),
		Dashboard:      controllers.NewDashboardController(dashboardService, exportService),
		Sync:           controllers.NewSyncController(syncService),
		LoginLimiter:   loginLimiter,
		Authenticator:  authService,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	appLogger.Info("Registry API started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	<-quit
	appLogger.Info("Shutting down registry API...")

	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited cleanly")
}
