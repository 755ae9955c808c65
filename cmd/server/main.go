package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"mealsense/internal/config"
	"mealsense/internal/crypto"
	"mealsense/internal/db"
	"mealsense/internal/handlers"
	"mealsense/internal/inference"
	"mealsense/internal/photos"
	"mealsense/internal/services"
	"mealsense/internal/store"
)

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; accounts are kept in memory and lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	var cipher *crypto.EncryptionService
	if cfg.DataEncryptionKey != "" {
		var err error
		if cipher, err = crypto.NewEncryptionServiceFromBase64(cfg.DataEncryptionKey); err != nil {
			return nil, nil, err
		}
	} else {
		logger.Warn("DATA_ENCRYPTION_KEY not set; account payloads are stored unencrypted")
	}

	dbConn, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.PingContext(ctx); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	return store.NewPostgresStore(dbConn, cipher), func() { dbConn.Close() }, nil
}

func newAnalyzer(cfg config.Config, logger *zap.Logger) *inference.Analyzer {
	fallback := inference.NewSynthesizer(nil)
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; meal estimates and menus are synthetic")
		return inference.NewAnalyzer(nil, fallback, logger)
	}

	policy := inference.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.InferenceMaxAttempts
	policy.BaseDelay = cfg.InferenceBaseDelay
	model := inference.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiTimeout)
	return inference.NewAnalyzer(inference.NewInvoker(model, policy, logger), fallback, logger)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("invalid configuration", zap.Error(err))
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	var archive services.PhotoArchive
	if cfg.PhotoBucket != "" {
		a, err := photos.NewArchive(ctx, cfg.PhotoBucket, cfg.AWSRegion, cfg.PhotoEndpoint)
		if err != nil {
			logger.Fatal("failed to configure photo archive", zap.Error(err))
		}
		archive = a
	}

	locks := store.NewKeyedMutex()
	router := handlers.NewRouter(handlers.RouterConfig{
		Accounts:  services.NewAccountService(st, locks, logger.Named("accounts")),
		FoodLog:   services.NewFoodLogService(st, locks, newAnalyzer(cfg, logger.Named("inference")), archive, logger.Named("foodlog")),
		JWTSecret: []byte(cfg.JWTSecret),
		TokenTTL:  cfg.TokenTTL,
		Logger:    logger.Named("http"),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
