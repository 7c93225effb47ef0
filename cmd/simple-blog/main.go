package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-blog/internal/config"
	httpserver "github.com/tendant/simple-blog/internal/http"
	"github.com/tendant/simple-blog/internal/logging"
	"github.com/tendant/simple-blog/internal/notification"
	"github.com/tendant/simple-blog/pkg/auth"
	"github.com/tendant/simple-blog/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger, logCloser, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	hasher := auth.NewArgon2idHasher(auth.DefaultArgon2Params())
	if err := auth.SelfTest(hasher); err != nil {
		return fmt.Errorf("password hasher self-test: %w", err)
	}

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return err
		}
		secret = generated
		logger.Warn("TOKEN_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	codec, err := auth.NewTokenCodec(auth.TokenConfig{Secret: secret, Issuer: cfg.TokenIssuer})
	if err != nil {
		return err
	}

	// Connect to database
	ctx := context.Background()
	db, err := repository.NewDB(ctx, repository.Config{
		URL:          cfg.DatabaseURL,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		DBName:       cfg.DBName,
		SSLMode:      cfg.DBSSLMode,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database")

	if cfg.DBRunMigrations {
		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(db)
	postsRepo := repository.NewPostsRepository(db)
	commentsRepo := repository.NewCommentsRepository(db)
	likesRepo := repository.NewLikesRepository(db)

	passwordPolicy := auth.NewPasswordPolicy(cfg.PasswordPolicy)
	logger.Info("password policy", "requirements", passwordPolicy.GetRequirements())

	// Initialize confirmation email delivery if configured
	var sender notification.Sender
	switch {
	case cfg.HasMailgun():
		sender = notification.NewMailgunService(notification.MailgunConfig{
			Key:    cfg.MailgunAPIKey,
			Domain: cfg.MailgunDomain,
			From:   cfg.MailgunFrom,
		})
		logger.Info("confirmation email enabled", "transport", "mailgun")
	case cfg.HasSMTP():
		sender = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("confirmation email enabled", "transport", "smtp")
	default:
		logger.Info("confirmation email disabled; clients use the returned confirmation_url")
	}

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		Users:           usersRepo,
		Authenticator:   auth.NewAuthenticator(usersRepo, hasher),
		Gate:            auth.NewAccessGate(codec, usersRepo),
		TokenCodec:      codec,
		Hasher:          hasher,
		PasswordPolicy:  passwordPolicy,
		Sender:          sender,
		Posts:           postsRepo,
		Comments:        commentsRepo,
		Likes:           likesRepo,
		AppBaseURL:      cfg.AppBaseURL,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "env", cfg.EnvState)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
