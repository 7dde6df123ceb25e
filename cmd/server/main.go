package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rrens/lookup-bot/internal/api"
	"github.com/Rrens/lookup-bot/internal/api/handler"
	"github.com/Rrens/lookup-bot/internal/bot"
	"github.com/Rrens/lookup-bot/internal/catalog"
	"github.com/Rrens/lookup-bot/internal/config"
	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/Rrens/lookup-bot/internal/menu"
	"github.com/Rrens/lookup-bot/internal/repository/redis"
	"github.com/Rrens/lookup-bot/internal/service"
	"github.com/Rrens/lookup-bot/internal/session"
	"github.com/Rrens/lookup-bot/internal/telegram"
	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		fmt.Println("Warning: .env file not found in any standard location")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	closeLog, err := setupLogger(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Catalog problems are programming errors, refuse to start
	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}
	log.Info().
		Int("operations", cat.Len()).
		Int("categories", len(cat.Categories())).
		Str("source", catalogSource(cfg)).
		Msg("Catalog loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	var (
		store  domain.SessionStore
		pinger handler.Pinger
	)
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		store = redis.NewSessionStore(redisClient, cfg.Session.TTL)
		pinger = redisClient
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
	}
	log.Info().Str("backend", cfg.Session.Backend).Dur("ttl", cfg.Session.TTL).Msg("Session store ready")

	// Telegram transport
	tg, err := telegram.NewClient(cfg.Telegram)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}

	router := bot.NewRouter(
		menu.NewNavigator(cat, cfg.About.Text),
		service.NewParameterCollector(cat, store),
		service.NewQueryExecutor(cfg.Lookup, nil),
		telegram.NewChannel(tg),
	)
	poller := telegram.NewPoller(tg, router, cfg.Telegram)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cat, pinger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	pollerDone := make(chan error, 1)
	go func() {
		pollerDone <- poller.Run(ctx)
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	select {
	case err := <-pollerDone:
		if err != nil {
			log.Error().Err(err).Msg("Poller stopped with error")
		}
	case <-shutdownCtx.Done():
		log.Warn().Msg("Timed out waiting for in-flight updates")
	}

	log.Info().Msg("Bot stopped")
}

// setupLogger configures the global logger. The returned func closes the
// rotated log file, if any.
func setupLogger(cfg config.LoggingConfig) (func(), error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	var console io.Writer = os.Stderr
	if cfg.Format == "console" && os.Getenv("ENV") != "production" {
		console = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if cfg.File == "" {
		log.Logger = log.Output(console)
		return func() {}, nil
	}

	rl, err := rotatelogs.New(
		cfg.File+".%Y%m%d",
		rotatelogs.WithLinkName(cfg.File),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(cfg.MaxAge),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(console, rl))
	return func() { rl.Close() }, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path, cfg.Lookup.BaseURL)
	}
	return catalog.Default(cfg.Lookup.BaseURL)
}

func catalogSource(cfg *config.Config) string {
	if cfg.Catalog.Path != "" {
		return cfg.Catalog.Path
	}
	return "builtin"
}
