// Command nanogen serves the NanoGen studio API: prompt in, generated or
// edited image out, with persisted history and presets.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/teklini/nanogen"
	"github.com/teklini/nanogen/httpapi"
	"github.com/teklini/nanogen/kvstore"
	"github.com/teklini/nanogen/provider/gemini"
	"github.com/teklini/nanogen/storage/local"
	"github.com/teklini/nanogen/storage/s3"
)

// Settings holds the service configuration, read from the environment.
type Settings struct {
	ListenAddr string `envconfig:"NANOGEN_LISTEN_ADDR" default:":8080"`
	Debug      bool   `envconfig:"NANOGEN_DEBUG" default:"false"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"NANOGEN_MODEL" default:"gemini-2.5-flash-image"`

	// HistoryBackend selects where the ledger persists: file, redis or memory.
	HistoryBackend string `envconfig:"NANOGEN_HISTORY_BACKEND" default:"file"`
	DataDir        string `envconfig:"NANOGEN_DATA_DIR" default:"./data"`
	RedisAddr      string `envconfig:"NANOGEN_REDIS_ADDR" default:"localhost:6379"`
	RedisDB        int    `envconfig:"NANOGEN_REDIS_DB" default:"0"`
	RedisPassword  string `envconfig:"NANOGEN_REDIS_PASSWORD" default:""`

	// StorageBackend selects where downloads land: local or s3.
	StorageBackend string `envconfig:"NANOGEN_STORAGE_BACKEND" default:"local"`
	DownloadDir    string `envconfig:"NANOGEN_DOWNLOAD_DIR" default:"./downloads"`
	S3Bucket       string `envconfig:"NANOGEN_S3_BUCKET"`

	RateLimitPerMin  int           `envconfig:"NANOGEN_RATE_LIMIT_PER_MINUTE" default:"10"`
	HTTPReadTimeout  time.Duration `envconfig:"NANOGEN_HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout time.Duration `envconfig:"NANOGEN_HTTP_WRITE_TIMEOUT" default:"120s"`
}

func main() {
	_ = godotenv.Load()

	var settings Settings
	if err := envconfig.Process("nanogen", &settings); err != nil {
		slog.Error("failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings, logger); err != nil {
		logger.Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, settings Settings, logger *slog.Logger) error {
	store, err := buildStore(settings)
	if err != nil {
		return err
	}

	storage, err := buildStorage(ctx, settings)
	if err != nil {
		return err
	}

	gateway, err := gemini.New(ctx, gemini.Config{
		APIKey: settings.GeminiAPIKey,
		Model:  settings.GeminiModel,
	}, logger)
	if err != nil {
		return err
	}

	studio := nanogen.NewStudio(gateway,
		nanogen.WithLogger(logger),
		nanogen.WithLedger(nanogen.NewLedger(store, nanogen.DefaultHistoryKey, logger)),
		nanogen.WithStorage(storage),
	)
	studio.LoadHistory(ctx)

	server := httpapi.NewServer(studio,
		httpapi.WithLogger(logger),
		httpapi.WithRateLimit(settings.RateLimitPerMin),
	)

	httpServer := &http.Server{
		Addr:         settings.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  settings.HTTPReadTimeout,
		WriteTimeout: settings.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", settings.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

func buildStore(settings Settings) (kvstore.Store, error) {
	switch settings.HistoryBackend {
	case "file":
		return kvstore.NewFileStore(settings.DataDir)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddr,
			DB:       settings.RedisDB,
			Password: settings.RedisPassword,
		})
		return kvstore.NewRedisStore(client, "nanogen:"), nil
	case "memory":
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, errors.New("unknown history backend: " + settings.HistoryBackend)
	}
}

func buildStorage(ctx context.Context, settings Settings) (nanogen.Storage, error) {
	switch settings.StorageBackend {
	case "local":
		return local.New(settings.DownloadDir)
	case "s3":
		if settings.S3Bucket == "" {
			return nil, errors.New("NANOGEN_S3_BUCKET is required for the s3 storage backend")
		}
		return s3.NewFromDefaultConfig(ctx, settings.S3Bucket)
	default:
		return nil, errors.New("unknown storage backend: " + settings.StorageBackend)
	}
}
