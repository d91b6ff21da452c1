package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/abramad/crisis-game-api/internal/config"
	"github.com/abramad/crisis-game-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/abramad/crisis-game-api/internal/infrastructure/jwt"
	s3infra "github.com/abramad/crisis-game-api/internal/infrastructure/s3"
	"github.com/abramad/crisis-game-api/internal/infrastructure/sms"
	"github.com/abramad/crisis-game-api/internal/infrastructure/smtp"
	transporthttp "github.com/abramad/crisis-game-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// SMS sender. A missing or misconfigured gateway does not stop the
	// service: codes are still issued, just not delivered.
	var smsSender sms.Sender
	switch cfg.SMSProvider {
	case "magfa":
		if sender, err := sms.NewMagfaSender(cfg); err == nil {
			smsSender = sender
		} else {
			slog.Warn("magfa sender not available, otp delivery disabled", "err", err)
		}
	case "sns":
		if sender, err := sms.NewSNSSender(cfg); err == nil {
			smsSender = sender
		} else {
			slog.Warn("sns sender not available, otp delivery disabled", "err", err)
		}
	default:
		slog.Warn("no sms provider configured, otp delivery disabled")
	}

	// Mailer for the new-lead notification (optional).
	var mailer smtp.Mailer
	if cfg.LeadNotifyEmail != "" {
		mailer = smtp.NewMailer(cfg)
	}

	// S3 store for lead exports (optional).
	var s3Store *s3infra.Store
	if cfg.S3BucketName != "" {
		s3Store = s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName)
	}

	// JWT provider for the admin surface. Missing key files disable the
	// admin routes rather than stopping the service.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		slog.Warn("jwt provider not available, admin routes disabled", "err", err)
	}

	deps := &transporthttp.Deps{
		OTPRepo:     dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTP),
		LeadRepo:    dynamo.NewLeadRepo(dynamoClient, cfg.DynamoTables.Leads),
		SMSSender:   smsSender,
		Mailer:      mailer,
		S3Store:     s3Store,
		JWTProvider: jwtProvider,
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
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
