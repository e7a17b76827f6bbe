package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatherly_backend/database"
	"gatherly_backend/internal/auth"
	"gatherly_backend/internal/config"
	"gatherly_backend/internal/email"
	"gatherly_backend/internal/handlers"
	"gatherly_backend/internal/imageprocessor"
	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/middleware"
	"gatherly_backend/internal/push"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/routes"
	"gatherly_backend/internal/services"
	"gatherly_backend/internal/storage"
	"gatherly_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run boots the full application and blocks until shutdown.
func Run() {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	auth.InitJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	router, cleanup, err := SetupRouter(cfg, db)
	if err != nil {
		logger.Fatal("application setup failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanupCtx, cancelWorkers := context.WithCancel(context.Background())
	go cleanup.Start(cleanupCtx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "addr", addr, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	cancelWorkers()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// SetupRouter builds the gin engine and the background worker. Split
// out from Run so tests can stand up the stack against their own DB.
func SetupRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, *workers.CleanupWorker, error) {
	container, cleanup, err := initializeServices(cfg, db)
	if err != nil {
		return nil, nil, err
	}

	appHandlers := handlers.NewAppHandlers(container)
	router := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(router, appHandlers)

	return router, cleanup, nil
}

func initializeServices(cfg *config.Config, db *gorm.DB) (*services.ServiceContainer, *workers.CleanupWorker, error) {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	attendeeRepo := repositories.NewAttendeeRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)

	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	emailProvider := buildEmailProvider(cfg)

	var relay push.Relay = push.NoopRelay{}
	if cfg.Push.Enabled {
		relay = push.NewClient(cfg.Push.Endpoint, &profileTokenSource{profiles: profileRepo})
	}

	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxDimension)

	slugService := services.NewSlugService(eventRepo, profileRepo)
	notificationService := services.NewNotificationService(notificationRepo, eventRepo, attendeeRepo, friendRepo, relay)

	container := &services.ServiceContainer{
		Auth:         services.NewAuthService(userRepo, refreshTokenRepo, emailProvider, cfg),
		Profile:      services.NewProfileService(profileRepo, slugService),
		Event:        services.NewEventService(eventRepo, attendeeRepo, profileRepo, slugService, notificationService),
		Friend:       services.NewFriendService(friendRepo, profileRepo, notificationService),
		Notification: notificationService,
		Upload:       services.NewUploadService(uploadRepo, store, processor, cfg),
	}

	cleanup := workers.NewCleanupWorker(refreshTokenRepo, cfg.Workers.CleanupIntervalHours)

	return container, cleanup, nil
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		return NewMockEmailProvider()
	}

	smtpConfig := email.DefaultConfig()
	smtpConfig.Host = cfg.Email.SMTPHost
	smtpConfig.Port = cfg.Email.SMTPPort
	smtpConfig.Username = cfg.Email.SMTPUsername
	smtpConfig.Password = cfg.Email.SMTPPassword
	smtpConfig.FromEmail = cfg.Email.FromEmail
	smtpConfig.FromName = cfg.Email.FromName
	smtpConfig.UseTLS = cfg.Email.UseTLS

	return email.NewSMTPProvider(smtpConfig, email.NewTemplateManager())
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(),
		middleware.DBMiddleware(db),
	)

	return router
}

// profileTokenSource adapts the profile repository to the push relay's
// token lookup.
type profileTokenSource struct {
	profiles repositories.ProfileRepository
}

func (s *profileTokenSource) PushTokenFor(userID string) (string, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrProfileNotFound {
			return "", nil
		}
		return "", err
	}
	return profile.ExpoPushToken, nil
}
