package main

import (
	"context"
	"errors"
	_ "expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huy11113/cinetaste-ai/cmd"
	"github.com/huy11113/cinetaste-ai/internal/cli"
	"github.com/huy11113/cinetaste-ai/internal/config"
	"github.com/huy11113/cinetaste-ai/internal/culinary"
	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/internal/llm/processing"
	"github.com/huy11113/cinetaste-ai/internal/platform/logger"
	"github.com/huy11113/cinetaste-ai/internal/platform/otel"
	"github.com/huy11113/cinetaste-ai/internal/server"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// register providers
	_ "github.com/huy11113/cinetaste-ai/internal/llm/google"
)

const debugAddr = "127.0.0.1:6060"

var banner = []string{
	"   _____ _            _____         _       ",
	"  / ____(_)          |_   _|       | |      ",
	" | |     _ _ __   ___  | | __ _ ___| |_ ___ ",
	" | |    | | '_ \\ / _ \\ | |/ _` / __| __/ _ \\",
	" | |____| | | | |  __/ | | (_| \\__ \\ ||  __/",
	"  \\_____|_|_| |_|\\___| |_|\\__,_|___/\\__\\___|",
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.CrossMark(), err)
		os.Exit(1)
	}

	logger.Initialize(logger.ForEnv(cfg.Server.Env))
	defer logger.Sync()
	log := logger.Get()

	fmt.Print(cli.Banner(banner, cli.Saffron, cli.Paprika))
	fmt.Printf("  %s %s\n\n", cli.Style("CineTaste AI", cli.BoldCode), cli.Style(cmd.AppVersion, cli.DimCode))

	go cmd.CheckForUpdates(context.Background())

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(cfg.Tracing.ServiceName, cmd.AppVersion, log, os.Stdout)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	provider, err := llm.NewProviderFactory().CreateProvider(cfg.Gemini)
	if err != nil {
		log.Fatal("Failed to create provider", zap.String("type", cfg.Gemini.Provider), zap.Error(err))
	}

	limiter, closeLimiter := newLimiter(cfg, log)
	defer closeLimiter()

	genOpts := gateway.Options{
		MaxAttempts:    cfg.Generation.MaxAttempts,
		BackoffBase:    cfg.Generation.BackoffBase,
		AttemptTimeout: cfg.Gemini.Timeout,
	}
	rt := gateway.NewRuntime(llm.NewModelCache(provider), limiter, genOpts, log.Named("gateway"))
	defer rt.Close()

	models := culinary.Models{Fast: cfg.Gemini.FastModel, Smart: cfg.Gemini.SmartModel}
	if cfg.Gemini.WarmUp {
		fmt.Println(cli.Arrow(), "Warming up models")
		gateway.WarmUp(context.Background(), rt, provider, []string{models.Fast, models.Smart}, log)
	}

	dishes := culinary.NewService(
		rt,
		processing.NewImagePreprocessor(cfg.Image.MaxBytes, cfg.Image.MaxDimension),
		models,
		log,
	)

	srv := server.New(cfg, log, server.Dependencies{
		Dishes:     dishes,
		Models:     rt.Cache(),
		Version:    cmd.AppVersion,
		FeatureIDs: dishes.FeatureIDs,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !cfg.IsProduction() {
		go func() {
			// expvar and pprof register on the default mux
			if err := http.ListenAndServe(debugAddr, nil); err != nil {
				log.Debug("Debug server stopped", zap.Error(err))
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Server.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
	case sig := <-quit:
		log.Info("Received signal", zap.String("signal", sig.String()))
	}

	// in-flight generations may still be retrying
	grace := genOpts.Budget(cfg.Generation.MinInterval) + 5*time.Second
	log.Info("Draining in-flight requests", zap.Duration("grace", grace))
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	log.Info("Server stopped")
}

// newLimiter returns the shared Redis limiter when configured and reachable,
// otherwise an in-process one.
func newLimiter(cfg *config.Config, log *zap.Logger) (gateway.Limiter, func()) {
	local := gateway.NewLocalLimiter(cfg.Generation.MinInterval)
	if !cfg.Redis.Enabled {
		return local, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, using in-process limiter", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return local, func() {}
	}

	log.Info("Using shared Redis limiter", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Redis.Key))
	return gateway.NewRedisLimiter(client, cfg.Redis.Key, cfg.Generation.MinInterval), func() { _ = client.Close() }
}
