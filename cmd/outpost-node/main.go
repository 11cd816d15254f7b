// Package main provides the entry point for outpost-node.
//
// outpost-node is one Hudson Bay outpost: it serves the inventory API,
// issues session tokens and answers export/import sync requests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/core/service"
	"github.com/mshears713/HudsonBayOutposts/internal/infra/confloader"
	"github.com/mshears713/HudsonBayOutposts/internal/infra/shutdown"
	"github.com/mshears713/HudsonBayOutposts/internal/server/config"
	"github.com/mshears713/HudsonBayOutposts/internal/server/httpserver"
	"github.com/mshears713/HudsonBayOutposts/internal/storage"
	"github.com/mshears713/HudsonBayOutposts/internal/storage/memory"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
	"golang.org/x/time/rate"
)

// Build information, set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile   = flag.String("config", "", "Path to configuration file")
		showVersion  = flag.Bool("version", false, "Show version information")
		hashPassword = flag.String("hash-password", "", "Hash a password for the users config section and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("outpost-node %s (commit: %s, built: %s)\n", version, commit, buildTime)
		return nil
	}

	if *hashPassword != "" {
		hash, err := service.HashPassword(*hashPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fmt.Println(hash)
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting outpost-node",
		"version", version,
		"fort", cfg.Server.Fort,
		"config", *configFile)

	metrics := metric.NewRegistry()

	store, err := initStore(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	users, err := initUsers(cfg)
	if err != nil {
		return fmt.Errorf("init users: %w", err)
	}

	auth := service.NewAuthService(users, service.AuthConfig{
		SessionTTL: cfg.Auth.SessionTTL,
		LoginRate:  rate.Limit(cfg.Auth.LoginRate),
		LoginBurst: cfg.Auth.LoginBurst,
	}, metrics)
	inventory := service.NewInventoryService(store, metrics)
	sync := service.NewSyncService(store, cfg.Server.Fort, log, metrics)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		AuthService:      auth,
		InventoryService: inventory,
		SyncService:      sync,
		Fort:             cfg.Server.Fort,
		Logger:           log,
		Metrics:          metrics,
	})

	server := httpserver.New(httpserver.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, router, log)

	// Expired sessions are pruned in the background; tokens also expire
	// lazily on access.
	pruneStop := make(chan struct{})
	go pruneSessions(auth, log, pruneStop)

	watcher, err := watchConfig(*configFile, log)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	handler := shutdown.NewHandler(30 * time.Second)
	handler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing record store")
		return store.Close()
	})
	handler.OnShutdown(func(ctx context.Context) error {
		close(pruneStop)
		if watcher != nil {
			return watcher.Stop()
		}
		return nil
	})
	handler.OnShutdown(func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
			handler.Trigger()
		}
	}()

	log.Info("outpost started, press Ctrl+C to stop")
	if err := handler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("outpost stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.NodeConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.NodeConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// initStore opens the record store selected by the configuration.
func initStore(cfg *config.NodeConfig) (storage.RecordStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		badgerCfg := storage.DefaultBadgerConfig(cfg.Storage.DataDir)
		badgerCfg.SyncWrites = cfg.Storage.SyncWrites
		badgerCfg.Logger = slog.Default()
		return storage.NewBadgerStore(badgerCfg)
	default:
		return memory.New(), nil
	}
}

// initUsers builds the user store from the configured accounts.
func initUsers(cfg *config.NodeConfig) (*service.StaticUserStore, error) {
	if len(cfg.Auth.Users) == 0 {
		return nil, fmt.Errorf("no users configured; add auth.users entries (use -hash-password to generate hashes)")
	}

	users := make([]*domain.User, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		users = append(users, &domain.User{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         domain.Role(u.Role),
			Fort:         cfg.Server.Fort,
		})
	}
	return service.NewStaticUserStore(users), nil
}

// pruneSessions removes expired sessions periodically.
func pruneSessions(auth *service.AuthService, log logger.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := auth.PruneExpired(); n > 0 {
				log.Debug("expired sessions pruned", "count", n)
			}
		case <-stop:
			return
		}
	}
}

// watchConfig reloads the log level when the config file changes.
// Returns nil when no config file is in use.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	if configFile == "" {
		return nil, nil
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", "level", cfg.Log.Level)
	})

	watcher.StartAsync()
	return watcher, nil
}
