package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mkravets/cutout-server/internal/api/http/handler"
	"github.com/mkravets/cutout-server/internal/api/http/router"
	httpServer "github.com/mkravets/cutout-server/internal/api/http/server"
	"github.com/mkravets/cutout-server/internal/config"
	"github.com/mkravets/cutout-server/internal/logger"
	"github.com/mkravets/cutout-server/internal/model"
	"github.com/mkravets/cutout-server/internal/repository/postgres"
	"github.com/mkravets/cutout-server/internal/segmentation/rembg"
	"github.com/mkravets/cutout-server/internal/server"
	"github.com/mkravets/cutout-server/internal/service"
	"github.com/mkravets/cutout-server/internal/session"
	storage "github.com/mkravets/cutout-server/internal/storage/minio"
	"github.com/mkravets/cutout-server/internal/verification/ses"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	backgroundRepo := postgres.NewBackgroundRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	gateway, err := newVerificationGateway(ctx, cfg.Verification)
	if err != nil {
		logger.Fatal("failed to initialize verification gateway", "error", err)
	}

	segmenter := rembg.NewClient(cfg.Segmenter.Endpoint, cfg.Segmenter.Timeout)

	accountService := service.NewAccount(userRepo, gateway, logger)
	imageService := service.NewImage(storageClient, segmenter, backgroundRepo, cfg.Media.ProcessedDir, logger)
	sessionManager := session.NewManager(cfg.Session.Secret)

	h, err := handler.New(accountService, imageService, sessionManager, logger)
	if err != nil {
		logger.Fatal("failed to create handler", "error", err)
	}

	r := router.New(h, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newVerificationGateway(ctx context.Context, cfg config.Verification) (*ses.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return ses.NewClient(sesv2.NewFromConfig(awsCfg)), nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
