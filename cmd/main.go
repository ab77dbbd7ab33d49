package main

import (
	"net/http"
	"os"
	"time"

	"estateauth/api/handler"
	apiMiddleware "estateauth/api/middleware"
	"estateauth/api/routes"
	"estateauth/config"
	"estateauth/internal/repository"
	"estateauth/internal/service"
	"estateauth/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config load failed")
	}

	db, err := config.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database connect failed")
	}

	validate := validator.New()

	accessManager := utils.JWTManager{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: time.Duration(cfg.AccessTokenMinutes) * time.Minute,
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	codeRepo := repository.NewOneTimeCodeRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	authService := service.NewAuthService(
		userRepo,
		sessionRepo,
		tokenRepo,
		codeRepo,
		auditRepo,
		service.BcryptPasswordHasher{},
		service.JWTAccessIssuer{Manager: &accessManager},
		service.NewGoogleVerifier(cfg.GoogleUserinfoURL, cfg.GoogleClientID),
		service.NewResendCodeSender(cfg.ResendAPIKey, cfg.EmailFrom),
		service.NewSMSCodeSender(cfg.SMSAPIKey, cfg.SMSBaseURL, cfg.SMSSender),
		service.RealClock{},
		service.AuthConfig{
			AccessTokenTTL:  time.Duration(cfg.AccessTokenMinutes) * time.Minute,
			RefreshTokenTTL: time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour,
		},
	)

	authHandler := handler.NewAuthHandler(authService, validate)
	authHandler.CookieDomain = cfg.CookieDomain
	authHandler.SecureCookies = cfg.CookieSecure

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager, Sessions: sessionRepo}
	router := routes.NewRouter(app, authHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
