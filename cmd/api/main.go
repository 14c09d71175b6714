package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	tokenapp "github.com/portfolio-backend/internal/application/token"
	"github.com/portfolio-backend/internal/application/verification"
	"github.com/portfolio-backend/internal/config"
	"github.com/portfolio-backend/internal/infrastructure/dynamo"
	"github.com/portfolio-backend/internal/infrastructure/redisstore"
	"github.com/portfolio-backend/internal/infrastructure/smtp"
	tokeninfra "github.com/portfolio-backend/internal/infrastructure/token"
	transporthttp "github.com/portfolio-backend/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	ctx := context.Background()

	dynamoClient, err := dynamo.NewClient(cfg)
	if err != nil {
		slog.Error("dynamodb client", "err", err)
		os.Exit(1)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	redisClient, err := redisstore.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("redis client", "err", err)
		os.Exit(1)
	}

	codec, err := tokeninfra.NewProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	if err != nil {
		slog.Error("token provider", "err", err)
		os.Exit(1)
	}

	accountRepo := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.UserAccounts)
	profileRepo := dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.UserProfiles)
	codeStore := redisstore.NewCodeStore(redisClient)
	rateLimitStore := redisstore.NewRateLimitStore(redisClient)
	mailer := smtp.NewMailer(cfg)

	deps := &transporthttp.Deps{
		VerificationSvc: verification.NewService(accountRepo, codeStore, verification.NewRateLimiter(rateLimitStore), mailer),
		TokenSvc:        tokenapp.NewService(accountRepo, profileRepo, codec),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("auth service starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
