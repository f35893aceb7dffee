package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"photogallery/api/handler"
	apiMiddleware "photogallery/api/middleware"
	"photogallery/api/routes"
	"photogallery/config"
	"photogallery/internal/repository"
	"photogallery/internal/service"
	"photogallery/internal/storage"
	"photogallery/internal/utils"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := config.NewLogger(cfg)

	db, err := config.ConnectionDb(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var otpRepo repository.OTPRepository
	switch cfg.OTPStore {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("redis connection failed")
		}
		otpRepo = repository.NewRedisOTPRepository(client, cfg.OTPRetention)
	default:
		otpRepo = repository.NewOTPRepository(db)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	clock := service.RealClock{}
	jwtManager := &utils.JWTManager{Secret: cfg.TokenSecret, Issuer: cfg.TokenIssuer}
	tokens := service.NewTokenService(tokenRepo, userRepo, jwtManager, clock, cfg.TokenTTL)
	media := storage.NewLocalMediaStore(cfg.MediaRoot, cfg.MediaURL)

	authService := service.NewAuthService(
		otpRepo,
		userRepo,
		securityRepo,
		newSender(cfg, logger),
		service.NewOTPGenerator(cfg.OTPDigits, cfg.OTPTTL, clock),
		service.BcryptCodeHasher{Cost: cfg.OTPHashCost},
		tokens,
		clock,
		logger,
		service.AuthConfig{
			AppName:   cfg.AppName,
			OTPTTL:    cfg.OTPTTL,
			OTPDigits: cfg.OTPDigits,
			TokenTTL:  cfg.TokenTTL,
		},
	)
	profileService := service.NewProfileService(userRepo, profileRepo, securityRepo, tokens, media, logger, cfg.MaxUploadBytes())
	photoService := service.NewPhotoService(photoRepo, media, logger, cfg.MaxUploadBytes())
	albumService := service.NewAlbumService(albumRepo, photoRepo)

	service.StartOTPCleanup(ctx, authService, cfg.OTPRetention, cfg.OTPCleanupInterval, logger)

	validate := handler.NewValidator()
	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)
	app.Pre(echoMiddleware.RemoveTrailingSlash())
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status":  v.Status,
				"method":  v.Method,
				"uri":     v.URI,
				"ip":      v.RemoteIP,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	app.Use(apiMiddleware.Metrics())
	app.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// multipart overhead on top of the largest allowed file
	app.Use(echoMiddleware.BodyLimit(formatBodyLimit(cfg.MaxUploadMB + 1)))

	router := &routes.Router{
		Echo:           app,
		Auth:           handler.NewAuthHandler(authService, profileService, validate, media.URL),
		Photos:         handler.NewPhotoHandler(photoService, validate, media.URL),
		Albums:         handler.NewAlbumHandler(albumService, validate),
		AuthMiddleware: apiMiddleware.AuthMiddleware{Tokens: tokens},
		OTPRequestRate: apiMiddleware.NewRateLimiter("request_otp", rate.Limit(cfg.OTPRateLimit), cfg.OTPRateBurst, cfg.RateLimitTTL),
		OTPVerifyRate:  apiMiddleware.NewRateLimiter("verify_otp", rate.Limit(cfg.OTPRateLimit), cfg.OTPRateBurst, cfg.RateLimitTTL),
		MediaRoot:      cfg.MediaRoot,
		MediaURL:       cfg.MediaURL,
	}
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server started")
		if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newSender(cfg config.Config, logger *logrus.Logger) service.NotificationSender {
	switch cfg.MailProvider {
	case "resend":
		return service.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	case "log":
		logger.Warn("MAIL_PROVIDER=log, OTP codes are written to the log")
		return service.LogSender{Logger: logger}
	default:
		return service.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}
}

func formatBodyLimit(megabytes int64) string {
	return strconv.FormatInt(megabytes, 10) + "M"
}
