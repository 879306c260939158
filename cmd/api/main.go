package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"slotswapper/config"
	_ "slotswapper/docs"
	authadapter "slotswapper/internal/adapters/auth"
	emailadapter "slotswapper/internal/adapters/email"
	httpdelivery "slotswapper/internal/delivery/http"
	"slotswapper/internal/delivery/http/controllers"
	"slotswapper/internal/delivery/http/middleware"
	"slotswapper/internal/domain"
	"slotswapper/internal/repository/postgres"
	"slotswapper/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title SlotSwapper API
// @version 1.0
// @description Calendar slot publishing and two-party slot swapping.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	swapRepo := postgres.NewSwapRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	uow := postgres.NewUnitOfWork(db)

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer, tokenVerifier := authadapter.NewJWTCodec(cfg.JWTSecret)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	var emailService domain.EmailService = services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry)
	eventService := services.NewEventService(eventRepo, serviceTimeout)
	swapService := services.NewSwapService(uow, eventRepo, swapRepo, userRepo, emailService, logger, serviceTimeout)

	mux := httpdelivery.NewRouter(
		controllers.NewAuthController(logger, userService),
		controllers.NewEventController(logger, eventService),
		controllers.NewSwapController(logger, swapService),
		tokenVerifier,
		logger,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
