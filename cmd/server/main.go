package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appreport "github.com/guardia/backend/internal/application/report"
	"github.com/guardia/backend/internal/infrastructure/auth"
	"github.com/guardia/backend/internal/infrastructure/config"
	"github.com/guardia/backend/internal/infrastructure/logger"
	"github.com/guardia/backend/internal/infrastructure/mail"
	"github.com/guardia/backend/internal/infrastructure/printing"
	"github.com/guardia/backend/internal/interfaces/http/handler"
	"github.com/guardia/backend/internal/interfaces/http/middleware"
	"github.com/guardia/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Rendering pipeline
	composer, err := printing.NewComposer()
	if err != nil {
		log.Fatal("failed to initialize document composer", zap.Error(err))
	}
	locator := printing.NewEngineLocator(printing.LocatorConfig{
		OverridePath: cfg.Render.ChromePath,
		Env:          cfg.App.Env,
		Logger:       log,
	})
	renderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		Locator:     locator,
		LoadTimeout: cfg.Render.LoadTimeout,
		Logger:      log,
	})

	// Outbound mail transport
	mailConfig := mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}
	dispatcher := mail.NewSMTPDispatcher(mailConfig, log)
	if err := mailConfig.Validate(); err != nil {
		// The server still starts so the health endpoint stays up, but every
		// report submission will be refused until mail is configured.
		log.Warn("mail transport not configured", zap.Error(err))
	}

	reportService := appreport.NewService(appreport.ServiceConfig{
		Composer:       composer,
		Renderer:       renderer,
		Dispatcher:     dispatcher,
		MailConfig:     mailConfig,
		LogoPath:       cfg.Render.LogoPath,
		RequestTimeout: cfg.Render.RequestTimeout,
		Logger:         log,
	})

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodySizeLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", handler.NewHealthHandler(cfg.App.Name).Check)

	sessionAuth := middleware.SessionAuth(jwtService, log)
	router.NewRouter(engine).
		Register(handler.NewReportHandler(reportService, sessionAuth)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()
	log.Info("server listening", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
