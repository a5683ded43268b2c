package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	specpkg "github.com/pfcr/clubportal/api"
	"github.com/pfcr/clubportal/internal/api"
	"github.com/pfcr/clubportal/internal/api/handler"
	"github.com/pfcr/clubportal/internal/breakglass"
	"github.com/pfcr/clubportal/internal/config"
	"github.com/pfcr/clubportal/internal/content"
	"github.com/pfcr/clubportal/internal/identity"
	"github.com/pfcr/clubportal/internal/k8s"
	"github.com/pfcr/clubportal/internal/media"
	"github.com/pfcr/clubportal/internal/metrics"
	"github.com/pfcr/clubportal/internal/postgres"
	"github.com/pfcr/clubportal/internal/provision"
	"github.com/pfcr/clubportal/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	m := metrics.New()
	directory := identity.NewPostgresProvider(db.Pool(), cfg.BcryptCost)
	storeOpts := []identity.StoreOption{}

	// The schema is applied with the most privileged connection available.
	migrator := db
	if cfg.AdminDatabaseURL != "" {
		adminDB, err := postgres.New(ctx, cfg.AdminDatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to admin database: %w", err)
		}
		defer adminDB.Close()

		migrator = adminDB
		storeOpts = append(storeOpts, identity.WithAdminAPI(identity.NewPostgresProvider(adminDB.Pool(), cfg.BcryptCost)))
	} else {
		slog.Warn("ADMIN_DATABASE_URL not set; account listing and provisioning are unavailable")
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		storeOpts = append(storeOpts, identity.WithListCache(identity.NewRedisListCache(redisClient, cfg.IdentityCacheTTL)))
	}

	k8sClient, err := initK8sClient(cfg)
	if err != nil {
		slog.Warn("kubernetes client initialization failed; health will not report cluster status", "error", err)
	}

	sessionOpts := []session.Option{session.WithMetrics(m)}
	if redisClient != nil {
		sessionOpts = append(sessionOpts, session.WithRevocations(session.NewRedisRevocations(redisClient)))
	}

	if cfg.BreakGlassEnabled {
		bg, err := initBreakGlass(ctx, cfg, k8sClient)
		if err != nil {
			return fmt.Errorf("initializing break-glass sign-in: %w", err)
		}
		slog.Warn("break-glass sign-in is enabled", "username", bg.Identity().Profile.Username, "env", cfg.AppEnv)
		storeOpts = append(storeOpts, identity.WithLocalIdentity(bg.Identity()))
		sessionOpts = append(sessionOpts, session.WithBreakGlass(bg))
	}

	store := identity.NewStore(directory, storeOpts...)
	sessions := session.NewManager([]byte(cfg.SessionSecret), cfg.SessionTTL, directory, store, sessionOpts...)

	registry, err := initCatalogs(ctx, cfg)
	if err != nil {
		return err
	}
	go media.NewRefresher(registry, cfg.CatalogRefreshInterval).Start(ctx)

	openapi, err := handler.NewOpenAPIHandler(specpkg.OpenAPISpec, cfg.Version)
	if err != nil {
		return err
	}

	deps := api.RouterDeps{
		DBPinger:    db,
		Version:     cfg.Version,
		OpenAPI:     openapi,
		Metrics:     m,
		Sessions:    sessions,
		Users:       store,
		Provisioner: provision.New(store, m),
		Content:     content.NewService(content.NewRepository(db.Pool()), m),
		Media:       media.NewService(registry, m),
	}
	if k8sClient != nil {
		deps.K8sChecker = k8sClient
	}
	router := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting club portal server", "port", cfg.Port, "version", cfg.Version, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(logHandler))
}

func initK8sClient(cfg *config.Config) (*k8s.Client, error) {
	var opts []k8s.ClientOption
	if cfg.KubeconfigPath != "" {
		opts = append(opts, k8s.WithKubeconfig(cfg.KubeconfigPath))
	}
	return k8s.NewClient(opts...)
}

func initBreakGlass(ctx context.Context, cfg *config.Config, k8sClient *k8s.Client) (*breakglass.Provider, error) {
	if cfg.BreakGlassSecretName != "" {
		if k8sClient == nil {
			return nil, fmt.Errorf("BREAK_GLASS_SECRET_NAME is set but no kubernetes client is available")
		}
		return breakglass.New(ctx, breakglass.SecretSource{
			Reader:    k8sClient,
			Namespace: cfg.Namespace,
			Name:      cfg.BreakGlassSecretName,
		})
	}
	return breakglass.New(ctx, breakglass.EnvSource{Credential: breakglass.Credential{
		Username:     cfg.BreakGlassUsername,
		PasswordHash: cfg.BreakGlassPasswordHash,
	}})
}

func initCatalogs(ctx context.Context, cfg *config.Config) (*media.Registry, error) {
	registry := media.NewRegistry()
	for name, path := range map[string]string{
		media.CatalogVideo: cfg.VideoCatalogPath,
		media.CatalogDrive: cfg.DriveCatalogPath,
	} {
		if path == "" {
			registry.Register(name, media.NewStaticCatalog(nil))
			continue
		}
		c, err := media.NewFileCatalog(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading %s catalog: %w", name, err)
		}
		registry.Register(name, c)
	}
	return registry, nil
}
