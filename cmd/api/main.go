package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careerhub-api/internal/config"
	"github.com/careerhub-api/internal/infrastructure/calendar"
	"github.com/careerhub-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/careerhub-api/internal/infrastructure/jwt"
	s3infra "github.com/careerhub-api/internal/infrastructure/s3"
	"github.com/careerhub-api/internal/infrastructure/smtp"
	"github.com/careerhub-api/internal/infrastructure/sns"
	transporthttp "github.com/careerhub-api/internal/transport/http"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	logger := newLogger(cfg.AppEnv)
	defer logger.Sync()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables, logger)

	// JWT provider (optional — graceful fallback if the key is missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		logger.Warn("JWT provider not available, authentication disabled", zap.Error(err))
	}

	// S3 artifact store.
	s3Client := s3infra.NewClient(cfg)
	artifactStore := s3infra.NewStore(s3Client, cfg)

	// Mailer: real SMTP when a host is configured, log-only otherwise.
	// Chosen once at process start.
	var mailer smtp.Mailer
	if cfg.SMTPHost != "" {
		mailer = smtp.NewMailer(cfg)
	} else {
		logger.Warn("SMTP_HOST not set, emails will be logged instead of sent")
		mailer = smtp.NewLogMailer(logger)
	}

	// SNS real-time channel (optional — records are persisted regardless).
	var publisher sns.Publisher
	if cfg.SNSTopicARN != "" {
		p, err := sns.NewPublisher(cfg)
		if err != nil {
			logger.Warn("SNS publisher not available, real-time channel disabled", zap.Error(err))
		} else {
			publisher = p
		}
	} else {
		logger.Warn("SNS_TOPIC_ARN not set, real-time channel disabled")
	}

	// Google Calendar gateway (optional — interview slots are skipped without it).
	var cal *calendar.Gateway
	if cfg.GoogleCredentialsPath != "" {
		g, err := calendar.NewGateway(context.Background(), cfg)
		if err != nil {
			logger.Warn("Calendar gateway not available, interview scheduling disabled", zap.Error(err))
		} else {
			cal = g
		}
	} else {
		logger.Warn("GOOGLE_CREDENTIALS_PATH not set, interview scheduling disabled")
	}

	deps := &transporthttp.Deps{
		ApplicationRepo:  dynamo.NewApplicationRepo(dynamoClient, cfg.DynamoTables.Applications),
		RegistrationRepo: dynamo.NewRegistrationRepo(dynamoClient, cfg.DynamoTables.EventRegistrations),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		EventRepo:        dynamo.NewEventRepo(dynamoClient, cfg.DynamoTables.CareerEvents),
		ArtifactStore:    artifactStore,
		Mailer:           mailer,
		Publisher:        publisher,
		Calendar:         cal,
		JWTProvider:      jwtProvider,
		Logger:           logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		l, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("logger: %v", err)
		}
		return l
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return l
}
