package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/addisnest/api/internal/application/auth"
	"github.com/addisnest/api/internal/application/media"
	"github.com/addisnest/api/internal/application/property"
	"github.com/addisnest/api/internal/config"
	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/infrastructure/dynamo"
	"github.com/addisnest/api/internal/infrastructure/google"
	jwtinfra "github.com/addisnest/api/internal/infrastructure/jwt"
	"github.com/addisnest/api/internal/infrastructure/localfs"
	"github.com/addisnest/api/internal/infrastructure/memory"
	redisinfra "github.com/addisnest/api/internal/infrastructure/redis"
	s3infra "github.com/addisnest/api/internal/infrastructure/s3"
	"github.com/addisnest/api/internal/infrastructure/smtp"
	"github.com/addisnest/api/internal/infrastructure/sns"
	transporthttp "github.com/addisnest/api/internal/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	// Users and listings live in DynamoDB; without it the process keeps them
	// in memory, which is only useful for local development.
	var (
		dynamoClient *dynamodb.Client
		users        auth.UserStore
		listings     property.Repository
		recorder     media.FileRecorder
	)
	if cfg.DynamoEnabled {
		dynamoClient, err = dynamo.NewClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("dynamodb client: %w", err)
		}
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
		users = dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
		listings = dynamo.NewPropertyRepo(dynamoClient, cfg.DynamoTables.Properties)
		recorder = dynamo.NewFileRepo(dynamoClient, cfg.DynamoTables.Files)
	} else {
		slog.Warn("dynamodb disabled, users and listings are kept in memory")
		users = memory.NewUserRepo()
		listings = memory.NewPropertyRepo()
	}

	otps, closeOTPs, err := newOTPStore(ctx, cfg, dynamoClient)
	if err != nil {
		return err
	}
	defer closeOTPs()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	var smsSender auth.SMSSender
	if cfg.SMSEnabled {
		s, err := sns.NewSender(ctx, cfg)
		if err != nil {
			slog.Warn("sns sender not available", "err", err)
		} else {
			smsSender = s
		}
	}

	verifiers := map[string]auth.IdentityVerifier{}
	if cfg.GoogleClientID != "" {
		verifiers[domain.ProviderGoogle] = google.NewVerifier(cfg.GoogleClientID)
	}

	authSvc := auth.NewService(auth.ServiceDeps{
		OTPStore:    otps,
		UserRepo:    users,
		Tokens:      tokens,
		Mailer:      smtp.NewMailer(cfg),
		SMSSender:   smsSender,
		Verifiers:   verifiers,
		OTPTTL:      cfg.OTPTTL,
		MaxAttempts: cfg.OTPMaxAttempts,
		ExposeOTP:   !cfg.IsProduction(),
	})

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Auth:       authSvc,
		Media:      media.NewService(media.ServiceDeps{Storage: storage, Recorder: recorder}),
		Properties: property.NewService(listings),
		Tokens:     tokens,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"otp_store", cfg.OTPStore, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func newOTPStore(ctx context.Context, cfg *config.Config, dynamoClient *dynamodb.Client) (auth.OTPStore, func(), error) {
	switch cfg.OTPStore {
	case "redis":
		client, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return redisinfra.NewOTPStore(client), func() { _ = client.Close() }, nil
	case "dynamo":
		if dynamoClient == nil {
			return nil, nil, errors.New("OTP_STORE=dynamo requires DYNAMO_ENABLED=true")
		}
		return dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs), func() {}, nil
	case "memory", "":
		return memory.NewOTPStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown OTP_STORE %q", cfg.OTPStore)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (media.Storage, error) {
	switch cfg.StorageBackend {
	case "s3":
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return s3infra.NewStore(client, cfg.S3BucketName), nil
	case "local", "":
		return localfs.NewStore(cfg.UploadDir), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
