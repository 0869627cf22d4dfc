package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bryanwahyu/passintel/internal/application"
	appanalysis "github.com/bryanwahyu/passintel/internal/application/analysis"
	appstats "github.com/bryanwahyu/passintel/internal/application/stats"
	"github.com/bryanwahyu/passintel/internal/config"
	domain "github.com/bryanwahyu/passintel/internal/domain/analysis"
	"github.com/bryanwahyu/passintel/internal/heuristic"
	aiopenai "github.com/bryanwahyu/passintel/internal/infra/ai/openai"
	mysqldb "github.com/bryanwahyu/passintel/internal/infra/db/mysql"
	postgresdb "github.com/bryanwahyu/passintel/internal/infra/db/postgres"
	"github.com/bryanwahyu/passintel/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/passintel/internal/infra/storage"
	"github.com/bryanwahyu/passintel/internal/middleware"
)

func main() {
	// .env is optional; real deployments use the process environment.
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	ctx := context.Background()

	var (
		db    *sql.DB
		store domain.Store
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal("postgres connect error", zap.Error(err))
		}
		store = postgresdb.NewStore(db, logger)
	default:
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal("mysql connect error", zap.Error(err))
		}
		store = mysqldb.NewStore(db, logger)
	}
	defer db.Close()

	var analyzer domain.Analyzer
	if cfg.AI.APIKey != "" {
		analyzer = aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model,
			time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	} else {
		logger.Warn("OPENAI_API_KEY not set, analyses use the heuristic scorer only")
	}

	var exporter domain.Exporter
	if cfg.Minio.Endpoint != "" {
		st, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		exporter = st
	}

	svc := &appanalysis.Service{
		AI:         analyzer,
		Heuristic:  heuristic.NewScorer(),
		Store:      store,
		Exporter:   exporter,
		Clock:      application.SystemClock{},
		Logger:     logger,
		AllowClear: cfg.History.AllowClear,
	}
	agg := &appstats.Aggregator{Audit: store}

	handler := httpserver.NewRouter(svc, agg, httpserver.Options{
		Logger:        logger,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
		Checkers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
		RateCapacity: cfg.RateLimit.Capacity,
		RateRefill:   cfg.RateLimit.RefillRate,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(zap.InfoLevel),
	)
	return zap.New(core, zap.AddCaller())
}
