package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bryanwahyu/id-verify/internal/application"
	appverif "github.com/bryanwahyu/id-verify/internal/application/verification"
	"github.com/bryanwahyu/id-verify/internal/config"
	"github.com/bryanwahyu/id-verify/internal/domain/ai"
	"github.com/bryanwahyu/id-verify/internal/domain/failures"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
	"github.com/bryanwahyu/id-verify/internal/infra/ai/gemini"
	"github.com/bryanwahyu/id-verify/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/id-verify/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/id-verify/internal/infra/db/postgres"
	"github.com/bryanwahyu/id-verify/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/id-verify/internal/infra/storage"
	"github.com/bryanwahyu/id-verify/internal/logging"
	"github.com/bryanwahyu/id-verify/internal/middleware"
)

func main() {
	// .env opsional, sama seperti load_dotenv()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logging.InitLogger(cfg.Log.Level)
	logger := logging.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newAIClient(cfg)
	if err != nil {
		log.Fatalf("ai client error: %v", err)
	}

	svc := &appverif.Service{
		Analyzer: appverif.NewAnalyzer(client, cfg.AI.Timeout, cfg.AI.MaxTokens),
		Clock:    application.SystemClock{},
		Logger:   logger,
	}
	checkers := map[string]middleware.HealthChecker{
		"model": middleware.CheckerFunc(func(context.Context) error {
			if cfg.AI.APIKey == "" {
				return errors.New("model API key not configured")
			}
			return nil
		}),
	}

	// init database (optional)
	if cfg.Database.Driver != "" {
		db, repo, fails, err := openDatabase(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
		}
		defer db.Close()
		svc.Repo = repo
		svc.Failures = fails
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		logger.Info("audit persistence enabled", "driver", cfg.Database.Driver)
	}

	// init minio (optional)
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Images = store
		checkers["minio"] = middleware.CheckerFunc(store.Check)
		logger.Info("image archive enabled", "bucket", cfg.Minio.BucketName)
	}

	var limiter *middleware.RateLimiter
	if rps := cfg.RateLimitRPS(); rps > 0 {
		limiter = middleware.NewRateLimiter(rps, cfg.Server.RateLimit.Burst)
		go limiter.Cleanup(ctx, 5*time.Minute)
	} else {
		logger.Warn("rate limiting disabled")
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Server.APIKeys,
		RateLimiter:    limiter,
		Metrics:        middleware.NewMetrics(),
		Checkers:       checkers,
		Logger:         logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// model call can take up to cfg.AI.Timeout
		WriteTimeout: cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "provider", client.Name(), "model", cfg.AI.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func newAIClient(cfg *config.Config) (ai.Client, error) {
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		if cfg.AI.BaseURL != "" {
			return openai.NewClientWithBaseURL(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL), nil
		}
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model), nil
	case config.ProviderGemini:
		return gemini.NewClient(cfg.AI.APIKey, cfg.AI.Model), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

func openDatabase(ctx context.Context, driver, dsn string) (*sql.DB, domain.Repository, failures.Repository, error) {
	switch driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, mysqlp.NewVerificationRepository(db), mysqlp.NewFailureRepository(db), nil
	case "postgres":
		db, err := pgp.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, pgp.NewVerificationRepository(db), pgp.NewFailureRepository(db), nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
