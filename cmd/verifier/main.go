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
	"github.com/signal-verifier/internal/application/link"
	"github.com/signal-verifier/internal/application/verify"
	"github.com/signal-verifier/internal/config"
	"github.com/signal-verifier/internal/domain"
	"github.com/signal-verifier/internal/infrastructure/dynamo"
	"github.com/signal-verifier/internal/infrastructure/jsonstore"
	"github.com/signal-verifier/internal/infrastructure/ocr"
	s3infra "github.com/signal-verifier/internal/infrastructure/s3"
	"github.com/signal-verifier/internal/infrastructure/sns"
	"github.com/signal-verifier/internal/infrastructure/xoauth"
	transporthttp "github.com/signal-verifier/internal/transport/http"
)

// logSink is the fallback notification sink: outcomes go to the structured
// log when no SNS topic is configured (local development).
type logSink struct{}

func (logSink) Emit(_ context.Context, o *domain.Outcome) error {
	slog.Info("verification outcome",
		"success", o.Success, "user_id", o.SubmitterID, "project", o.Project,
		"score", o.Score, "tier", o.Tier, "handle_mismatch", o.HandleMismatch)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	identityRepo := dynamo.NewIdentityRepo(dynamoClient, cfg.DynamoTables.LinkedIdentities)
	historyRepo := dynamo.NewHistoryRepo(dynamoClient, cfg.DynamoTables.VerificationHistory)

	// Notification sink (SNS topic, or the log when not configured).
	var sink verify.OutcomeSink = logSink{}
	if publisher, err := sns.NewOutcomePublisher(cfg); err == nil {
		sink = publisher
	} else {
		log.Printf("WARN: SNS outcome publisher not available: %v", err)
	}

	// Screenshot archive (optional).
	var archive verify.ScreenshotArchive
	if cfg.ScreenshotBucket != "" {
		archive = s3infra.NewStore(s3infra.NewClient(cfg), cfg.ScreenshotBucket)
	}

	detector := ocr.NewClient(cfg.OCREndpoint, time.Duration(cfg.OCRTimeoutSec)*time.Second)

	worker := verify.NewWorker(verify.WorkerDeps{
		Detector:   detector,
		Identities: identityRepo,
		History:    historyRepo,
		Sink:       sink,
		Archive:    archive,
		QueueSize:  cfg.QueueSize,
	})

	linkSvc := link.NewService(link.ServiceDeps{
		Identities:    identityRepo,
		Pending:       jsonstore.NewPendingStore(cfg.PendingLinkFile),
		Exchanger:     xoauth.NewClient(cfg.XClientID, cfg.XClientSecret, cfg.XRedirectURI, cfg.XScopes),
		LinkSecret:    cfg.LinkSecret,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{LinkSvc: linkSvc, Worker: worker, History: historyRepo})

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

	log.Println("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
